package main

import (
  "fmt"

  "github.com/urfave/cli/v2"
  "github.com/ushakovn/helpdesk/internal/catalog"
  "github.com/ushakovn/helpdesk/internal/config"
)

func catalogCommand() *cli.Command {
  return &cli.Command{
    Name:  "catalog",
    Usage: "Print the issue types loaded from the instructions directory",
    Flags: []cli.Flag{
      &cli.StringFlag{
        Name:  "dir",
        Usage: "Read instructions from `DIR`, overrides instructions.dir",
      },
    },
    Action: func(c *cli.Context) error {
      cfg, err := loadConfig(c)
      if err != nil {
        return err
      }

      dir := c.String("dir")
      if dir == "" {
        dir = cfg.Get(config.InstructionsDir).String()
      }

      instructions := catalog.Load(dir)

      for _, name := range instructions.Names() {
        entry, _ := instructions.Find(name)
        fmt.Fprintf(c.App.Writer, "%s\t%d blocks\n", name, len(entry.Blocks))
      }

      return nil
    },
  }
}
