// Package wxrobot provides a declaration-driven command engine for
// WeChat Work (wxwork) chat robots.
//
// The command model is in package 'command', declarations are loaded
// by package 'config', and the robot process is in `cmd/wxrobot`.
package wxrobot
