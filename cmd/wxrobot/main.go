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

// Package main is a single-robot process that reads chat messages
// from a coupling (stdin, MQTT, or a WebSocket), matches them against
// the robot's command table, and writes the replies back.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/Comcast/wxrobot/command"
	"github.com/Comcast/wxrobot/config"
	"github.com/Comcast/wxrobot/dispatch"
	"github.com/Comcast/wxrobot/sio"
	"github.com/Comcast/wxrobot/store/bolt"
	"github.com/Comcast/wxrobot/tools"
	"github.com/Comcast/wxrobot/util"
)

func main() {

	var (
		coupling     = flag.String("io", "std", `IO protocol: "std", "mq", or "ws"`)
		settingsFile = flag.String("settings", "", "Optional settings filename (JSON or YAML)")
		commandsFile = flag.String("commands", "", "Command declarations filename (JSON or YAML)")
		boltFile     = flag.String("bolt", "", "Optional BoltDB filename holding command documents")
		robot        = flag.String("robot", "", "Robot name (key of the command document in -bolt)")

		store    = flag.Bool("store", false, "Store -commands in -bolt under -robot and exit")
		dump     = flag.Bool("dump", false, "Write the command declarations as YAML and exit")
		helpHTML = flag.String("help-html", "", "Write an HTML help page to this file and exit")
		watch    = flag.Bool("watch", false, "Reload -commands when the file changes")

		wait        = flag.Duration("wait", time.Second, "Wait this long before shutting down couplings")
		haltOnEOF   = flag.Bool("halt-on-eof", false, "Stop on input EOF")
		replyErrors = flag.Bool("reply-errors", false, "Reply with command errors")
		verbose     = flag.Bool("v", false, "Verbose")
		help        = flag.Bool("h", false, "Get usage")
	)

	flag.Parse()

	if *help {
		flag.PrintDefaults()

		{
			fmt.Fprintf(os.Stderr, "\n-io std (default):\n\n")
			_, fs := NewStdCouplings(nil)
			fs.PrintDefaults()
		}

		{
			fmt.Fprintf(os.Stderr, "\n-io mq:\n\n")
			_, fs := NewMQTTCouplings(nil)
			fs.PrintDefaults()
		}

		{
			fmt.Fprintf(os.Stderr, "\n-io ws:\n\n")
			_, fs := NewWebSocketCouplings(nil)
			fs.PrintDefaults()
		}

		os.Exit(0)
	}

	util.Logging = *verbose

	settings := &config.Settings{
		Bucket: config.DefaultBucket,
	}
	if *settingsFile != "" {
		s, err := config.LoadSettings(*settingsFile)
		if err != nil {
			panic(err)
		}
		settings = s
	}
	if *commandsFile == "" {
		*commandsFile = settings.CommandsFilename
	}
	if *boltFile == "" {
		*boltFile = settings.BoltFilename
	}
	if *robot == "" {
		*robot = settings.Name
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if *store {
		if err := storeCommands(ctx, *boltFile, settings.Bucket, *robot, *commandsFile); err != nil {
			panic(err)
		}
		return
	}

	if *dump {
		if err := dumpCommands(*commandsFile); err != nil {
			panic(err)
		}
		return
	}

	table, err := loadTable(ctx, *boltFile, settings.Bucket, *robot, *commandsFile)
	if err != nil {
		panic(err)
	}
	log.Printf("loaded %d commands", len(table))

	if *helpHTML != "" {
		f, err := os.Create(*helpHTML)
		if err != nil {
			panic(err)
		}
		if err = tools.RenderHelpPage(table, *robot, f, nil); err != nil {
			panic(err)
		}
		if err = f.Close(); err != nil {
			panic(err)
		}
		return
	}

	httpTimeout, spawnTimeout, err := settings.Timeouts()
	if err != nil {
		panic(err)
	}

	router, err := dispatch.NewRouter(table, httpTimeout, spawnTimeout)
	if err != nil {
		panic(err)
	}
	if router.Env, err = settings.BaseEnv(); err != nil {
		panic(err)
	}
	router.DefaultReply = settings.DefaultReply
	router.Debug = *verbose
	if h, is := router.Runners[command.KindHTTP].(*dispatch.HTTPRunner); is {
		h.Debug = *verbose
	}

	if *watch {
		if *boltFile != "" && *robot != "" {
			log.Printf("-watch ignored for commands from %s", *boltFile)
		} else if err = config.Watch(ctx, *commandsFile, router.SetTable); err != nil {
			panic(err)
		}
	}

	var cio sio.Couplings
	switch *coupling {
	case "std":
		c, _ := NewStdCouplings(flag.Args())
		cio = c
	case "mq", "mqtt":
		c, _ := NewMQTTCouplings(flag.Args())
		cio = c
	case "ws":
		c, _ := NewWebSocketCouplings(flag.Args())
		cio = c
	default:
		panic(fmt.Errorf("unknown io: '%s'", *coupling))
	}

	conf := &sio.RobotConf{
		HaltOnInputEOF: *haltOnEOF,
		ReplyErrors:    *replyErrors,
	}

	if err := cio.Start(ctx); err != nil {
		panic(err)
	}

	r, err := sio.NewRobot(ctx, conf, router, cio)
	if err != nil {
		panic(err)
	}
	r.Verbose = *verbose

	go func() {
		if std, is := cio.(*sio.Stdio); is && *haltOnEOF {
			<-std.InputEOF
			log.Printf("input EOF (waiting %v)", *wait)
			time.Sleep(*wait)
			cancel()
		}
	}()

	if err := r.Loop(ctx); err != nil {
		panic(err)
	}
	cancel()

	if err = cio.Stop(context.Background()); err != nil {
		log.Printf("error from io.Stop: %v", err)
	}
}

// loadTable gets the command table from BoltDB when a database and a
// robot name are given and from the commands file otherwise.
func loadTable(ctx context.Context, boltFile, bucket, robot, commandsFile string) (command.Table, error) {
	if boltFile != "" && robot != "" {
		s, err := bolt.NewStorage(boltFile, bucket)
		if err != nil {
			return nil, err
		}
		if err = s.Open(); err != nil {
			return nil, err
		}
		defer s.Close()
		return s.Table(ctx, robot)
	}
	if commandsFile == "" {
		return nil, fmt.Errorf("need -commands or -bolt and -robot")
	}
	return config.LoadTable(commandsFile)
}

func storeCommands(ctx context.Context, boltFile, bucket, robot, commandsFile string) error {
	if boltFile == "" || robot == "" || commandsFile == "" {
		return fmt.Errorf("-store needs -bolt, -robot, and -commands")
	}
	body, err := os.ReadFile(commandsFile)
	if err != nil {
		return err
	}
	s, err := bolt.NewStorage(boltFile, bucket)
	if err != nil {
		return err
	}
	if err = s.Open(); err != nil {
		return err
	}
	defer s.Close()
	if err = s.Put(ctx, robot, body); err != nil {
		return err
	}
	log.Printf("stored %s (%d bytes)", robot, len(body))
	return nil
}

func dumpCommands(commandsFile string) error {
	body, err := os.ReadFile(commandsFile)
	if err != nil {
		return err
	}
	ds, err := config.ParseDeclarations(body)
	if err != nil {
		return err
	}
	bs, err := config.DumpDeclarations(ds)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(bs)
	return err
}

func E(err error, args ...interface{}) error {
	log.Printf("error %s: %v", err, args)
	return err
}
