package main

import (
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	clconfig "github.com/metrico/cloki-config"
	clokibase "github.com/metrico/cloki-config/config"
	validator "gopkg.in/go-playground/validator.v9"

	"github.com/M-A-D-A-R-A/lmnr/config"
	"github.com/M-A-D-A-R-A/lmnr/dbRegistry"
	"github.com/M-A-D-A-R-A/lmnr/model"
	apirouterv1 "github.com/M-A-D-A-R-A/lmnr/router"
	"github.com/M-A-D-A-R-A/lmnr/shared/commonroutes"
	"github.com/M-A-D-A-R-A/lmnr/utils/logger"
	"github.com/M-A-D-A-R-A/lmnr/utils/middleware"
	"github.com/M-A-D-A-R-A/lmnr/watchdog"
)

const version = "0.1.0"

var appFlags commandLineFlags

type commandLineFlags struct {
	showHelpMessage bool
	showVersion     bool
	configPath      string
}

func initFlags() {
	flag.BoolVar(&appFlags.showHelpMessage, "help", false, "show help")
	flag.BoolVar(&appFlags.showVersion, "version", false, "show version")
	flag.StringVar(&appFlags.configPath, "config", "", "the path to the config file")
	flag.Parse()
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func boolEnv(key string) (bool, error) {
	switch os.Getenv(key) {
	case "true", "1", "yes", "y":
		return true, nil
	case "false", "0", "no", "n", "":
		return false, nil
	}
	return false, fmt.Errorf("%s value must be one of [no, n, false, 0, yes, y, true, 1]", key)
}

func portCHEnv(cfg *clconfig.ClokiConfig) error {
	if len(cfg.Setting.DATABASE_DATA) > 0 {
		return nil
	}
	node := clokibase.ClokiBaseDataBase{
		Name:         envOr("CLICKHOUSE_DB", "default"),
		Host:         envOr("CLICKHOUSE_SERVER", "localhost"),
		ClusterName:  os.Getenv("CLUSTER_NAME"),
		ReadTimeout:  30,
		WriteTimeout: 30,
	}
	// native protocol port, not the HTTP one
	port, err := strconv.ParseUint(envOr("CLICKHOUSE_PORT", "9000"), 10, 32)
	if err != nil {
		return fmt.Errorf("invalid port number: %w", err)
	}
	node.Port = uint32(port)
	if auth := os.Getenv("CLICKHOUSE_AUTH"); auth != "" {
		pair := strings.SplitN(auth, ":", 2)
		node.User = pair[0]
		if len(pair) > 1 {
			node.Password = pair[1]
		}
	}
	proto := os.Getenv("CLICKHOUSE_PROTO")
	node.Secure = proto == "https" || proto == "tls"
	if os.Getenv("SELF_SIGNED_CERT") != "" {
		insecure, err := boolEnv("SELF_SIGNED_CERT")
		if err != nil {
			return fmt.Errorf("invalid self_signed_cert value: %w", err)
		}
		node.InsecureSkipVerify = insecure
	}
	cfg.Setting.DATABASE_DATA = []clokibase.ClokiBaseDataBase{node}
	return nil
}

func portEnv(cfg *clconfig.ClokiConfig) error {
	if err := portCHEnv(cfg); err != nil {
		return err
	}
	if v := os.Getenv("LMNR_LOGIN"); v != "" {
		cfg.Setting.AUTH_SETTINGS.BASIC.Username = v
	}
	if v := os.Getenv("LMNR_PASSWORD"); v != "" {
		cfg.Setting.AUTH_SETTINGS.BASIC.Password = v
	}
	if v := os.Getenv("CORS_ALLOW_ORIGIN"); v != "" {
		cfg.Setting.HTTP_SETTINGS.Cors.Enable = true
		cfg.Setting.HTTP_SETTINGS.Cors.Origin = v
	}
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid port number: %w", err)
		}
		cfg.Setting.HTTP_SETTINGS.Port = port
	}
	if v := os.Getenv("HOST"); v != "" {
		cfg.Setting.HTTP_SETTINGS.Host = v
	}
	if cfg.Setting.HTTP_SETTINGS.Host == "" {
		cfg.Setting.HTTP_SETTINGS.Host = "0.0.0.0"
	}
	return nil
}

func main() {
	initFlags()
	if appFlags.showHelpMessage {
		flag.Usage()
		return
	}
	if appFlags.showVersion {
		fmt.Println(version)
		return
	}
	var configPaths []string
	if _, err := os.Stat(appFlags.configPath); err == nil {
		configPaths = append(configPaths, appFlags.configPath)
	}
	cfg := clconfig.New(clconfig.CLOKI_READER, configPaths, "", "")

	cfg.ReadConfig()

	err := portEnv(cfg)
	if err != nil {
		panic(err)
	}
	if cfg.Setting.HTTP_SETTINGS.Port == 0 {
		cfg.Setting.HTTP_SETTINGS.Port = 8000
	}
	if cfg.Setting.LOG_SETTINGS.Level == "" {
		cfg.Setting.LOG_SETTINGS.Level = "info"
	}
	cfg.Setting.LOG_SETTINGS.Stdout = true

	config.Cloki = cfg
	config.Validate = validator.New()

	if config.Cloki.Setting.SYSTEM_SETTINGS.CPUMaxProcs == 0 {
		runtime.GOMAXPROCS(runtime.NumCPU())
	} else {
		runtime.GOMAXPROCS(config.Cloki.Setting.SYSTEM_SETTINGS.CPUMaxProcs)
	}

	logger.InitLogger()
	initPyro()

	app := mux.NewRouter()
	if cfg.Setting.AUTH_SETTINGS.BASIC.Username != "" &&
		cfg.Setting.AUTH_SETTINGS.BASIC.Password != "" {
		app.Use(middleware.BasicAuthMiddleware(cfg.Setting.AUTH_SETTINGS.BASIC.Username,
			cfg.Setting.AUTH_SETTINGS.BASIC.Password))
	}
	app.Use(middleware.AcceptEncodingMiddleware)
	if cfg.Setting.HTTP_SETTINGS.Cors.Enable {
		app.Use(middleware.CorsMiddleware(cfg.Setting.HTTP_SETTINGS.Cors.Origin))
		// mux applies middleware to matched routes only, so preflight
		// needs a route of its own to reach the CORS handler
		app.PathPrefix("/").Methods(http.MethodOptions).
			HandlerFunc(func(http.ResponseWriter, *http.Request) {})
	}
	app.Use(middleware.LoggingMiddleware)
	commonroutes.RegisterCommonRoutes(app, version)

	dbRegistry.Init()
	watchdog.Init(&model.ServiceData{Session: dbRegistry.Registry})
	apirouterv1.RouteSpanMetrics(app, dbRegistry.Registry)

	httpURL := fmt.Sprintf("%s:%d", cfg.Setting.HTTP_SETTINGS.Host, cfg.Setting.HTTP_SETTINGS.Port)
	httpStart(app, httpURL)
}

func httpStart(server *mux.Router, httpURL string) {
	logger.Info("Starting service")

	listener, err := net.Listen("tcp", httpURL)
	if err != nil {
		logger.Error("Error creating listener: ", err)
		panic(err)
	}
	logger.Info("Server is listening on ", httpURL)
	if err := http.Serve(listener, server); err != nil {
		logger.Error("Error serving: ", err)
		panic(err)
	}
}
