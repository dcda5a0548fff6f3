package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	jmsadapter "github.com/conapi-oss/jms-adapter"
	"github.com/conapi-oss/jms-adapter/adapter"
	"github.com/conapi-oss/jms-adapter/config"
	"github.com/conapi-oss/jms-adapter/internal/logging"
	"github.com/conapi-oss/jms-adapter/internal/reload"
	"github.com/conapi-oss/jms-adapter/telemetry"
)

// errReload signals that the configuration or the artifact set changed while
// draining and the bridge should rebuild its connection.
var errReload = errors.New("configuration changed")

func main() {
	cfgPath := flag.String("config", "config.yaml", "Path to configuration file")
	configCheck := flag.Bool("config-check", false, "Validate configuration and exit")
	endpointID := flag.String("endpoint", "", "Endpoint id to operate on")
	mode := flag.String("mode", "drain", "Operation mode: send or drain")
	body := flag.String("message", "", "Text body to send in send mode")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	if *configCheck {
		fmt.Println("Configuration check completed successfully.")
		os.Exit(0)
	}

	logger, cleanup, err := logging.Setup(cfg.Logging)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to setup logger")
	}
	defer cleanup()
	log.Logger = logger

	collector, err := newTelemetryCollector(cfg.Telemetry)
	if err != nil {
		fmt.Fprintf(os.Stderr, "telemetry disabled: %v\n", err)
		collector = telemetry.Noop()
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	for {
		err := run(ctx, *cfgPath, cfg, *endpointID, *mode, *body, logger, collector)
		if errors.Is(err, errReload) {
			logger.Info().Msg("configuration change detected, reloading")
			if cfg, err = config.Load(*cfgPath); err != nil {
				logger.Fatal().Err(err).Msg("failed to reload configuration")
			}
			continue
		}
		if err != nil {
			logger.Fatal().Err(err).Msg("bridge stopped with error")
		}
		return
	}
}

func run(ctx context.Context, cfgPath string, cfg *config.Config, endpointID, mode, body string, logger zerolog.Logger, collector telemetry.Collector) error {
	endpoint, err := cfg.Endpoint(endpointID)
	if err != nil {
		return err
	}
	if !endpoint.Enabled {
		return fmt.Errorf("endpoint %q is disabled", endpoint.ID)
	}

	opts := []jmsadapter.Option{
		jmsadapter.WithLogger(logger),
		jmsadapter.WithCollector(collector),
	}
	if cfg.Connection.LibsPath != "" {
		opts = append(opts, jmsadapter.WithArtifactDir(cfg.Connection.LibsPath))
	}
	factory, err := jmsadapter.New(opts...)
	if err != nil {
		return err
	}

	conn, err := connect(factory, cfg.Connection)
	if err != nil {
		return err
	}
	defer conn.Close()
	if err := conn.Start(); err != nil {
		return err
	}

	session, err := conn.CreateSession()
	if err != nil {
		return err
	}
	defer session.Close()

	dest, err := resolveDestination(factory, session, endpoint)
	if err != nil {
		return err
	}

	switch strings.ToLower(mode) {
	case "send":
		return send(session, dest, endpoint, body, logger)
	case "drain":
		watcher, err := reload.NewWatcher(cfgPath, cfg.Connection.LibsPath)
		if err != nil {
			return fmt.Errorf("create config watcher: %w", err)
		}
		return drain(ctx, session, dest, endpoint, watcher, logger)
	default:
		return fmt.Errorf("unsupported mode %q", mode)
	}
}

func connect(factory *jmsadapter.Factory, cc config.ConnectionConfig) (*adapter.Connection, error) {
	switch cc.Type {
	case config.ConnectionDirect:
		cf, err := factory.CreateConnectionFactory(cc.Direct.ConnectionFactoryClass, cc.Properties.AsMap())
		if err != nil {
			return nil, err
		}
		if cc.Direct.Username != "" {
			return cf.CreateConnectionWithCredentials(cc.Direct.Username, cc.Direct.Password)
		}
		return cf.CreateConnection()
	case config.ConnectionJNDI:
		cf, err := factory.LookupConnectionFactory(cc.JNDI.Environment(cc.Properties), cc.JNDI.FactoryName)
		if err != nil {
			return nil, err
		}
		if cc.JNDI.Principal != "" {
			return cf.CreateConnectionWithCredentials(cc.JNDI.Principal, cc.JNDI.Credentials)
		}
		return cf.CreateConnection()
	default:
		return nil, fmt.Errorf("unsupported connection type %q", cc.Type)
	}
}

func resolveDestination(factory *jmsadapter.Factory, session *adapter.Session, endpoint config.EndpointConfig) (*adapter.Destination, error) {
	url, err := endpoint.DestinationURL()
	if err != nil {
		return nil, err
	}
	if endpoint.IsJNDI() {
		// reuses the environment cached by the connection lookup
		return factory.LookupDestination(nil, url)
	}
	return session.CreateDestination(url)
}

func send(session *adapter.Session, dest *adapter.Destination, endpoint config.EndpointConfig, body string, logger zerolog.Logger) error {
	producer, err := session.CreateProducer(dest)
	if err != nil {
		return err
	}
	defer producer.Close()

	msg, err := session.CreateTextMessage(body, nil)
	if err != nil {
		return err
	}
	if err := producer.Send(msg); err != nil {
		return err
	}
	logger.Info().Str("endpoint", endpoint.ID).Msg("message sent")
	return nil
}

func drain(ctx context.Context, session *adapter.Session, dest *adapter.Destination, endpoint config.EndpointConfig, watcher *reload.Watcher, logger zerolog.Logger) error {
	var consumer *adapter.MessageConsumer
	var err error
	if endpoint.Selector != "" {
		consumer, err = session.CreateConsumerWithSelector(dest, endpoint.Selector)
	} else {
		consumer, err = session.CreateConsumer(dest)
	}
	if err != nil {
		return err
	}
	defer consumer.Close()

	timeout := endpoint.ReceiveTimeout.Duration
	if timeout <= 0 {
		timeout = time.Second
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}
		if changed, err := watcher.Check(); err == nil && len(changed) > 0 {
			return errReload
		}
		msg, err := consumer.Receive(timeout)
		if err != nil {
			return err
		}
		if msg == nil {
			continue
		}
		logMessage(logger, endpoint.ID, msg)
	}
}

func logMessage(logger zerolog.Logger, endpointID string, msg *adapter.Message) {
	id, _ := msg.MessageID()
	event := logger.Info().Str("endpoint", endpointID).Str("messageId", id)
	if msg.IsTextMessage() {
		if text, err := msg.Text(); err == nil {
			event = event.Str("body", text)
		}
	}
	event.Msg("message received")
}

func newTelemetryCollector(cfg config.TelemetryConfig) (telemetry.Collector, error) {
	if !cfg.Enabled {
		return telemetry.Noop(), nil
	}
	provider := strings.ToLower(strings.TrimSpace(cfg.Provider))
	switch provider {
	case "", "prometheus":
		return telemetry.NewPrometheusCollector(nil)
	default:
		return telemetry.Noop(), fmt.Errorf("unsupported telemetry provider %q", cfg.Provider)
	}
}
