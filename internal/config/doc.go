// Package config provides configuration parsing for Lumen projects.
//
// The configuration is stored in lumen.json at the project root.
// This package handles loading, saving, and validating configuration.
//
// # Configuration File Structure
//
//	{
//	  "name": "my-app",
//	  "entry": "src/index.ts",
//	  "static": "public",
//	  "target": "es2017",
//	  "external": ["react"],
//	  "dev": {
//	    "port": 3000,
//	    "host": "localhost",
//	    "openBrowser": true,
//	    "watch": ["src"],
//	    "ignore": ["**/*.test.ts"],
//	    "hotUpdate": true
//	  },
//	  "build": {
//	    "output": "dist",
//	    "minify": true,
//	    "sourcemap": false
//	  }
//	}
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Port:", cfg.Dev.Port)
package config
