package main

import (
  "fmt"
  "os"

  "github.com/urfave/cli/v2"
)

func main() {
  app := &cli.App{
    Name:  "helpdesk",
    Usage: "Slack helpdesk bot: troubleshooting instructions and issue intake",
    Flags: []cli.Flag{
      &cli.StringFlag{
        Name:    "config",
        Aliases: []string{"c"},
        Usage:   "Load configuration from TOML `FILE`, environment variables override it",
        EnvVars: []string{"HELPDESK_CONFIG"},
      },
    },
    Commands: []*cli.Command{
      serveCommand(),
      catalogCommand(),
    },
  }

  if err := app.Run(os.Args); err != nil {
    fmt.Fprintf(os.Stderr, "Error: %s\n", err)
    os.Exit(1)
  }
}
