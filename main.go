package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	kingpin "gopkg.in/alecthomas/kingpin.v2"

	"github.com/positron-geo/positron/api"
	"github.com/positron-geo/positron/config"
	"github.com/positron-geo/positron/geodb"
	"github.com/positron-geo/positron/locate"
	"github.com/positron-geo/positron/metrics"
	"github.com/positron-geo/positron/queue"
	"github.com/positron-geo/positron/quota"
	"github.com/positron-geo/positron/store"
)

var (
	app = kingpin.New(
		"positron",
		"Observation-based geolocation service")

	debug = app.Flag("debug", "Run in debug mode.").
		Short('d').
		Envar("POSITRON_DEBUG").
		Bool()
	configFile = app.Arg("config-path", "Path to the config.").
			Required().
			File()
)

func init() {
	app.Version("0.0.1")
	log.SetFormatter(&log.TextFormatter{})
	log.SetLevel(log.WarnLevel)
}

func main() {
	kingpin.MustParse(app.Parse(os.Args[1:]))

	if *debug {
		log.SetLevel(log.DebugLevel)
	}

	conf, err := config.Parse(*configFile)
	if err != nil {
		log.Fatal(err.Error())
	}

	db, err := store.OpenPostgres(conf.DatabaseURI)
	if err != nil {
		log.Fatal(err.Error())
	}
	defer db.Close()

	redisOptions, err := redis.ParseURL(conf.RedisURI)
	if err != nil {
		log.Fatal(err.Error())
	}
	redisClient := redis.NewClient(redisOptions)
	defer redisClient.Close()

	var finder geodb.Finder
	if conf.GeoIPPath != "" {
		reader, err := geodb.Open(conf.GeoIPPath)
		if err != nil {
			log.Fatal(err.Error())
		}
		defer reader.Close()
		finder = reader
	}

	var fallback *locate.FallbackClient
	if conf.Fallback.URL != "" {
		fallback = locate.NewFallbackClient(
			conf.Fallback.URL,
			conf.FallbackTimeout(),
			conf.FallbackRateLimitInterval(),
			conf.FallbackRateLimitBurst())
	}

	registry := prometheus.NewRegistry()
	sink := metrics.NewPrometheusSink(registry)

	keys := quota.NewCachedKeyStore(
		quota.NewSQLKeyStore(db.DB()),
		conf.KeyCacheSize(),
		conf.KeyCacheTTL())
	counters := quota.NewRedisCounterStore(redisClient)
	guard := quota.NewGuard(keys, counters)

	router := api.NewRouter(api.Deps{
		Guard:            guard,
		PositionSearcher: locate.NewPositionSearcher(db, finder, fallback, sink),
		RegionSearcher:   locate.NewRegionSearcher(finder, sink),
		Queue:            queue.NewRedisQueue(redisClient, queue.DefaultKey),
		Sink:             sink,
	})
	router.Method(http.MethodGet, "/metrics",
		promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	server := &http.Server{
		Addr:    conf.Listen,
		Handler: router,
	}

	go func() {
		signals := make(chan os.Signal, 1)
		signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
		<-signals

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		server.Shutdown(ctx) // nolint: errcheck
	}()

	log.WithFields(log.Fields{
		"listen": conf.Listen,
	}).Info("Starting server.")

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err.Error())
	}
}
