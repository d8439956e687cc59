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

package config

import (
	"context"
	"log"
	"path/filepath"
	"time"

	"github.com/Comcast/wxrobot/command"

	"github.com/fsnotify/fsnotify"
)

// WatchDebounce is how long Watch waits for a burst of changes to a
// commands file to settle before reloading it.
var WatchDebounce = 200 * time.Millisecond

// Watch reloads the commands file whenever it changes and gives each
// new Table to the callback.  A file that fails to load is logged and
// the callback isn't called.
//
// Watch watches the file's directory, so editors that replace the
// file (rename or remove and create) are handled.  The watch runs
// until the context is done.
func Watch(ctx context.Context, filename string, callback func(command.Table)) error {
	filename = filepath.Clean(filename)

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err = w.Add(filepath.Dir(filename)); err != nil {
		w.Close()
		return err
	}

	go func() {
		defer w.Close()

		// Nil until a change is pending.
		var pending <-chan time.Time

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != filename {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				pending = time.After(WatchDebounce)
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				log.Printf("config.Watch %s error %v", filename, err)
			case <-pending:
				pending = nil
				t, err := LoadTable(filename)
				if err != nil {
					log.Printf("config.Watch %s reload error %v", filename, err)
					continue
				}
				log.Printf("config.Watch %s reloaded %d commands", filename, len(t))
				callback(t)
			}
		}
	}()

	return nil
}
