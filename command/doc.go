/* Copyright 2026 Comcast Cable Communications Management, LLC
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 * http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package command compiles robot command declarations and matches
// chat messages against them.
//
// A declaration is a JSON object keyed by a regular expression.  The
// object's "type" selects one of four variants (Echo, Spawn, HTTP, or
// Help).  Parse compiles a whole document of declarations into a
// Table.  A declaration that can't be compiled is logged (via Logf)
// and dropped; the rest of the Table is unaffected.
//
// At request time, Command.Match applies a Command's pattern to a
// message.  When the pattern matches, the result is an Env: the
// Command's static environment plus the full match (keyed by
// EnvPrefix) and every participating named capture group (keyed by
// EnvPrefix + "_" + the upper-cased group name).
//
// Nothing in this package performs IO.  A Table and its Commands are
// not modified after they are built, so they can be shared by
// concurrent readers without locking.
package command
