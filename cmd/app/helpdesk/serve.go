package main

import (
  "context"
  "errors"
  "fmt"
  "math"
  "net/http"
  "os/signal"
  "syscall"
  "time"

  "github.com/go-resty/resty/v2"
  "github.com/labstack/echo/v4"
  "github.com/labstack/echo/v4/middleware"
  "github.com/samber/lo"
  log "github.com/sirupsen/logrus"
  "github.com/urfave/cli/v2"
  "github.com/ushakovn/helpdesk/internal/app/dashboard"
  "github.com/ushakovn/helpdesk/internal/app/helpdesk"
  "github.com/ushakovn/helpdesk/internal/app/issues"
  "github.com/ushakovn/helpdesk/internal/catalog"
  "github.com/ushakovn/helpdesk/internal/config"
  slackdeps "github.com/ushakovn/helpdesk/internal/deps/slack"
  "github.com/ushakovn/helpdesk/internal/deps/storage/mongodb"
  "github.com/ushakovn/helpdesk/pkg/logger"
  "github.com/ushakovn/helpdesk/pkg/worker"
)

const shutdownTimeout = 10 * time.Second

func serveCommand() *cli.Command {
  return &cli.Command{
    Name:  "serve",
    Usage: "Start the HTTP server for Slack commands, interactions and the dashboard",
    Flags: []cli.Flag{
      &cli.StringFlag{
        Name:  "addr",
        Usage: "Listen on `ADDR`, overrides http.addr",
      },
    },
    Action: serve,
  }
}

func loadConfig(c *cli.Context) (*config.Config, error) {
  cfg, err := config.Load(c.String("config"))
  if err != nil {
    return nil, fmt.Errorf("config.Load: %w", err)
  }

  level := log.InfoLevel.String()
  if cfg.Get(config.Debug).Bool() {
    level = log.DebugLevel.String()
  }

  logger.InitWithConfig(logger.Config{
    Level: level,
    Fields: map[string]any{
      "app": "helpdesk",
    },
  })

  return cfg, nil
}

func serve(c *cli.Context) error {
  cfg, err := loadConfig(c)
  if err != nil {
    return err
  }

  ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
  defer stop()

  log.Warn("helpdesk app initializing")

  mongoClient, err := mongodb.NewClient(ctx,
    mongodb.Config{
      URI:  cfg.Get(config.MongodbURI).String(),
      Host: cfg.Get(config.MongodbHost).String(),
      Port: cfg.Get(config.MongodbPort).String(),
      Authentication: &mongodb.Authentication{
        User:     cfg.Get(config.MongodbUser).String(),
        Password: cfg.Get(config.MongodbPassword).String(),
      },
    },
    mongodb.Dependencies{
      Client: http.DefaultClient,
    })
  if err != nil {
    return fmt.Errorf("mongodb.NewClient: %w", err)
  }

  // Storage failures are reported per operation, the bot keeps serving instructions without it.
  if err = mongoClient.Ping(ctx); err != nil {
    log.Errorf("mongoClient.Ping: %v", err)
  }

  issuesRepo, err := issues.NewRepository(
    issues.Config{
      Database:   cfg.Get(config.MongodbDatabase).String(),
      Collection: cfg.Get(config.MongodbCollection).String(),
    },
    issues.Dependencies{
      Mongodb: mongoClient,
    })
  if err != nil {
    return fmt.Errorf("issues.NewRepository: %w", err)
  }

  slackClient, err := slackdeps.NewClient(
    slackdeps.Config{
      Token:         cfg.Get(config.SlackBotToken).String(),
      SigningSecret: cfg.Get(config.SlackSigningSecret).String(),
      APIURL:        cfg.Get(config.SlackAPIURL).String(),
      UserNameTTL:   cfg.Get(config.SlackUserNameTTL).Duration(),
    },
    slackdeps.Dependencies{
      Client: resty.NewWithClient(&http.Client{
        Timeout: slackdeps.DefaultRequestTimeout,
      }),
    })
  if err != nil {
    return fmt.Errorf("slackdeps.NewClient: %w", err)
  }

  instructions := catalog.Load(cfg.Get(config.InstructionsDir).String())

  // Queued interactions are drained on shutdown, so the pool outlives the signal context.
  poolCtx, cancelPool := context.WithCancel(context.Background())
  defer cancelPool()

  pool := worker.NewPool(poolCtx, worker.Config{
    Count:  uint8(lo.Clamp(cfg.Get(config.WorkerCount).Int(), 1, math.MaxUint8)),
    Buffer: worker.DefaultBuffer,
  })

  transport, err := helpdesk.NewTransport(
    helpdesk.Config{
      ChannelId: cfg.Get(config.SlackChannelId).String(),
    },
    helpdesk.Dependencies{
      Catalog: instructions,
      Issues:  issuesRepo,
      Slack:   slackClient,
      Pool:    pool,
    })
  if err != nil {
    return fmt.Errorf("helpdesk.NewTransport: %w", err)
  }

  board, err := dashboard.NewDashboard(dashboard.Dependencies{
    Issues: issuesRepo,
  })
  if err != nil {
    return fmt.Errorf("dashboard.NewDashboard: %w", err)
  }

  e := newEcho()
  transport.Register(e)
  board.Register(e)

  addr := lo.CoalesceOrEmpty(c.String("addr"), cfg.Get(config.HTTPAddr).String())

  serveErr := make(chan error, 1)

  go func() {
    log.
      WithField("addr", addr).
      Info("http server starting")

    if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
      serveErr <- err
    }
    close(serveErr)
  }()

  var startErr error

  select {
  case <-ctx.Done():
  case startErr = <-serveErr:
  }

  log.Warn("helpdesk app terminating")

  shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
  defer cancel()

  if err := e.Shutdown(shutdownCtx); err != nil {
    log.Errorf("e.Shutdown: %v", err)
  }
  pool.StopWait()

  if err := mongoClient.Disconnect(shutdownCtx); err != nil {
    log.Errorf("mongoClient.Disconnect: %v", err)
  }

  if startErr != nil {
    return fmt.Errorf("e.Start: %w", startErr)
  }
  return nil
}

func newEcho() *echo.Echo {
  e := echo.New()
  e.HideBanner = true
  e.HidePort = true

  e.Use(middleware.Recover())
  e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
    LogMethod:  true,
    LogURI:     true,
    LogStatus:  true,
    LogLatency: true,
    LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
      log.
        WithField("method", v.Method).
        WithField("uri", v.URI).
        WithField("status", v.Status).
        WithField("latency", v.Latency).
        Debug("http request served")

      return nil
    },
  }))

  return e
}
