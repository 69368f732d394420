// Package config loads fiber.json, the settings file shared by the fiber
// command's subcommands.
//
// # Configuration File Structure
//
//	{
//	  "slice": {
//	    "budget": "5ms",
//	    "yieldThreshold": "1ms",
//	    "maxRestarts": 25
//	  },
//	  "log": {"level": "debug"},
//	  "inspect": {"addr": "localhost:7070"},
//	  "snapshot": {
//	    "dir": ".fiber/snapshots",
//	    "s3": {"bucket": "ui-snapshots", "prefix": "dev/", "region": "us-east-1"}
//	  },
//	  "scenes": ["scenes"]
//	}
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Budget:", cfg.Slice.Budget.Std())
package config
