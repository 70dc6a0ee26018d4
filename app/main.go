package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"sync"
	"syscall"
	"time"

	log "github.com/go-pkgz/lgr"
	"github.com/go-pkgz/repeater"
	"github.com/go-pkgz/repeater/strategy"
	"github.com/umputun/go-flags"
	"gopkg.in/natefinch/lumberjack.v2"

	"scribefeed/app/alerts"
	"scribefeed/app/client"
	"scribefeed/app/config"
	"scribefeed/app/feed"
	"scribefeed/app/web"
)

var opts struct {
	Config string `short:"f" long:"config" env:"SCRIBEFEED_CONFIG" description:"yaml config file, overrides matching flags"`
	Listen string `short:"l" long:"listen" env:"SCRIBEFEED_LISTEN" default:":8080" description:"web server listen address"`

	API struct {
		URL     string        `long:"url" env:"URL" description:"transcription service base url"`
		Key     string        `long:"key" env:"KEY" description:"bearer token for the transcription service"`
		Timeout time.Duration `long:"timeout" env:"TIMEOUT" default:"10s" description:"api request timeout"`
	} `group:"api" namespace:"api" env-namespace:"SCRIBEFEED_API"`

	Feed struct {
		HeartbeatTimeout time.Duration `long:"heartbeat-timeout" env:"HEARTBEAT_TIMEOUT" default:"12s" description:"push considered stale after this silence"`
		CheckInterval    time.Duration `long:"check-interval" env:"CHECK_INTERVAL" default:"3s" description:"staleness check interval"`
		ActivePoll       time.Duration `long:"active-poll" env:"ACTIVE_POLL" default:"2s" description:"poll interval with active jobs"`
		IdlePoll         time.Duration `long:"idle-poll" env:"IDLE_POLL" default:"15s" description:"poll interval with no active jobs"`
	} `group:"feed" namespace:"feed" env-namespace:"SCRIBEFEED_FEED"`

	Alerts struct {
		OnFailure    bool          `long:"on-failure" env:"ON_FAILURE" description:"notify on job failures"`
		OnCompletion bool          `long:"on-completion" env:"ON_COMPLETION" description:"notify on job completions"`
		Destinations []string      `long:"to" env:"TO" env-delim:"," description:"notification destinations, mailto:, slack:, telegram: or http(s) url"`
		SMTPHost     string        `long:"smtp-host" env:"SMTP_HOST" description:"SMTP host"`
		SMTPPort     int           `long:"smtp-port" env:"SMTP_PORT" default:"25" description:"SMTP port"`
		SMTPTLS      bool          `long:"smtp-tls" env:"SMTP_TLS" description:"enable SMTP TLS"`
		SMTPStartTLS bool          `long:"smtp-starttls" env:"SMTP_STARTTLS" description:"enable SMTP StartTLS"`
		SMTPUsername string        `long:"smtp-username" env:"SMTP_USERNAME" description:"SMTP user name"`
		SMTPPassword string        `long:"smtp-password" env:"SMTP_PASSWORD" description:"SMTP password"`
		SlackToken   string        `long:"slack-token" env:"SLACK_TOKEN" description:"slack bot token"`
		TgToken      string        `long:"telegram-token" env:"TELEGRAM_TOKEN" description:"telegram bot token"`
		Timeout      time.Duration `long:"timeout" env:"TIMEOUT" default:"10s" description:"notification send timeout"`
		HostName     string        `long:"host" env:"HOSTNAME" description:"host name reported in alerts"`
	} `group:"alerts" namespace:"alerts" env-namespace:"SCRIBEFEED_ALERTS"`

	Log struct {
		Enabled         bool   `long:"enabled" env:"ENABLED" description:"enable rotated file logging"`
		Filename        string `long:"file" env:"FILE" default:"scribefeed.log" description:"log file name"`
		MaxSize         int    `long:"max-size" env:"MAX_SIZE" default:"100" description:"max log size in megabytes"`
		MaxBackups      int    `long:"max-backups" env:"MAX_BACKUPS" default:"7" description:"max number of rotated files"`
		MaxAge          int    `long:"max-age" env:"MAX_AGE" default:"0" description:"max age of rotated files in days"`
		EnabledCompress bool   `long:"compress" env:"COMPRESS" description:"compress rotated files"`
	} `group:"log" namespace:"log" env-namespace:"SCRIBEFEED_LOG"`

	Wait time.Duration `long:"wait" env:"SCRIBEFEED_WAIT" description:"wait for the api to come up before starting"`
	Dbg  bool          `long:"dbg" env:"SCRIBEFEED_DEBUG" description:"debug mode"`
}

var revision = "unknown"

func main() {
	fmt.Printf("scribefeed %s\n", revision)

	if _, err := flags.Parse(&opts); err != nil {
		os.Exit(2)
	}
	setupLogs()

	defer func() {
		if x := recover(); x != nil {
			log.Printf("[WARN] run time panic:\n%v", x)
			panic(x)
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	signals(cancel) // handle SIGQUIT and SIGTERM

	if opts.Config != "" {
		if err := applyConfig(opts.Config); err != nil {
			log.Fatalf("[ERROR] %v", err)
		}
	}
	if opts.API.URL == "" {
		log.Fatalf("[ERROR] api url is required, set --api.url or api.url in the config file")
	}

	if err := run(ctx); err != nil {
		log.Fatalf("[ERROR] scribefeed failed, %v", err)
	}
	log.Printf("[INFO] scribefeed terminated")
}

// run wires the api client, the feed engine, the alerter and the web server
// and blocks until the context is canceled or the web server fails.
func run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	cl, err := client.New(client.Config{BaseURL: opts.API.URL, APIKey: opts.API.Key, Timeout: opts.API.Timeout})
	if err != nil {
		return fmt.Errorf("can't make api client: %w", err)
	}

	if opts.Wait > 0 {
		if err := waitForAPI(ctx, cl); err != nil {
			return err
		}
	}

	alerter := alerts.New(alerts.Config{
		Destinations:  opts.Alerts.Destinations,
		OnFailure:     opts.Alerts.OnFailure,
		OnCompletion:  opts.Alerts.OnCompletion,
		SMTPHost:      opts.Alerts.SMTPHost,
		SMTPPort:      opts.Alerts.SMTPPort,
		SMTPTLS:       opts.Alerts.SMTPTLS,
		SMTPStartTLS:  opts.Alerts.SMTPStartTLS,
		SMTPUsername:  opts.Alerts.SMTPUsername,
		SMTPPassword:  opts.Alerts.SMTPPassword,
		SlackToken:    opts.Alerts.SlackToken,
		TelegramToken: opts.Alerts.TgToken,
		Hostname:      makeHostName(),
		Timeout:       opts.Alerts.Timeout,
	})

	eng, err := feed.New(feed.Config{
		Fetcher:          cl,
		Subscriber:       cl,
		Commander:        cl,
		HeartbeatTimeout: opts.Feed.HeartbeatTimeout,
		CheckInterval:    opts.Feed.CheckInterval,
		Poll:             feed.Cadence{Active: opts.Feed.ActivePoll, Idle: opts.Feed.IdlePoll},
		OnSnapshot:       alerter.Observe,
	})
	if err != nil {
		return fmt.Errorf("can't make feed engine: %w", err)
	}

	srv, err := web.New(web.Config{Feed: eng, Tags: cl, Version: revision})
	if err != nil {
		return fmt.Errorf("can't make web server: %w", err)
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		eng.Run(ctx)
	}()
	go func() {
		defer wg.Done()
		alerter.Run(ctx)
	}()

	err = srv.Run(ctx, opts.Listen)
	cancel()
	wg.Wait()
	return err
}

// applyConfig overlays values from the yaml config file on top of the flags.
// Booleans merge with or, the file can turn an alert on but not off.
func applyConfig(path string) error {
	fc, err := config.Load(path)
	if err != nil {
		return err
	}
	log.Printf("[INFO] config file %s loaded", path)

	if fc.API.URL != "" {
		opts.API.URL = fc.API.URL
	}
	if fc.API.Key != "" {
		opts.API.Key = fc.API.Key
	}
	if fc.API.Timeout > 0 {
		opts.API.Timeout = fc.API.Timeout.D()
	}

	if fc.Feed.HeartbeatTimeout > 0 {
		opts.Feed.HeartbeatTimeout = fc.Feed.HeartbeatTimeout.D()
	}
	if fc.Feed.CheckInterval > 0 {
		opts.Feed.CheckInterval = fc.Feed.CheckInterval.D()
	}
	if fc.Feed.ActivePoll > 0 {
		opts.Feed.ActivePoll = fc.Feed.ActivePoll.D()
	}
	if fc.Feed.IdlePoll > 0 {
		opts.Feed.IdlePoll = fc.Feed.IdlePoll.D()
	}

	if fc.Web.Address != "" {
		opts.Listen = fc.Web.Address
	}

	opts.Alerts.OnFailure = opts.Alerts.OnFailure || fc.Alerts.OnFailure
	opts.Alerts.OnCompletion = opts.Alerts.OnCompletion || fc.Alerts.OnCompletion
	if len(fc.Alerts.Destinations) > 0 {
		opts.Alerts.Destinations = fc.Alerts.Destinations
	}
	if fc.Alerts.SMTP.Host != "" {
		opts.Alerts.SMTPHost = fc.Alerts.SMTP.Host
		opts.Alerts.SMTPPort = fc.Alerts.SMTP.Port
		opts.Alerts.SMTPTLS = fc.Alerts.SMTP.TLS
		opts.Alerts.SMTPStartTLS = fc.Alerts.SMTP.StartTLS
		opts.Alerts.SMTPUsername = fc.Alerts.SMTP.Username
		opts.Alerts.SMTPPassword = fc.Alerts.SMTP.Password
	}
	if fc.Alerts.SlackToken != "" {
		opts.Alerts.SlackToken = fc.Alerts.SlackToken
	}
	if fc.Alerts.TelegramToken != "" {
		opts.Alerts.TgToken = fc.Alerts.TelegramToken
	}
	return nil
}

// waitForAPI blocks until the transcription service answers or the wait
// deadline passes. Useful when scribefeed starts together with the service.
func waitForAPI(ctx context.Context, cl *client.Client) error {
	log.Printf("[INFO] waiting up to %v for %s", opts.Wait, opts.API.URL)

	waitCtx, cancel := context.WithTimeout(ctx, opts.Wait)
	defer cancel()

	attempts := int(opts.Wait/time.Second) + 1
	rptr := repeater.New(&strategy.FixedDelay{Repeats: attempts, Delay: time.Second})
	err := rptr.Do(waitCtx, func() error {
		_, e := cl.FetchJobs(waitCtx)
		return e
	})
	if err != nil {
		return fmt.Errorf("api not available after %v: %w", opts.Wait, err)
	}
	log.Printf("[INFO] api %s is up", opts.API.URL)
	return nil
}

func makeHostName() string {
	if opts.Alerts.HostName != "" {
		return opts.Alerts.HostName
	}
	host, err := os.Hostname()
	if err != nil {
		return "unknown"
	}
	return host
}

// setupLogs configures logging and returns the destination writer, a rotated
// file logger when file logging is enabled and stdout otherwise.
func setupLogs() io.Writer {
	logOpts := []log.Option{log.Msec}
	if opts.Dbg {
		logOpts = append(logOpts, log.Debug, log.CallerFunc, log.CallerPkg, log.CallerFile)
	}

	if opts.Log.Enabled && opts.Log.Filename != "" {
		fileLogger := &lumberjack.Logger{
			Filename:   opts.Log.Filename,
			MaxSize:    opts.Log.MaxSize,
			MaxBackups: opts.Log.MaxBackups,
			MaxAge:     opts.Log.MaxAge,
			Compress:   opts.Log.EnabledCompress,
		}
		logOpts = append(logOpts, log.Out(io.MultiWriter(os.Stdout, fileLogger)))
		log.Setup(logOpts...)
		return fileLogger
	}

	log.Setup(logOpts...)
	return os.Stdout
}

func signals(cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	go func() {
		stacktrace := make([]byte, 8192)
		for sig := range sigChan {
			if sig == syscall.SIGQUIT { // catch SIGQUIT and print stack traces
				length := runtime.Stack(stacktrace, true)
				fmt.Println(string(stacktrace[:length]))
				continue
			}
			cancel() // terminate on SIGTERM and SIGINT
		}
	}()
	signal.Notify(sigChan, syscall.SIGQUIT, syscall.SIGTERM, syscall.SIGINT)
}
