package logger

import (
	"log"
	"log/syslog"
	"os"
	"path/filepath"
	"strings"
	"time"

	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	"github.com/sirupsen/logrus"

	"github.com/M-A-D-A-R-A/lmnr/config"
)

var Logger = logrus.New()

// InitLogger configures the package level logger from LOG_SETTINGS.
func InitLogger() {
	settings := config.Cloki.Setting.LOG_SETTINGS

	if settings.Json {
		Logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		Logger.SetFormatter(&logrus.TextFormatter{DisableColors: true})
	}

	if settings.Qryn.Url != "" {
		hostname := ""
		if settings.Qryn.AddHostname {
			hostname, _ = os.Hostname()
		}
		headers := map[string]string{}
		for _, h := range strings.Split(settings.Qryn.Headers, ";;") {
			pair := strings.SplitN(h, ":", 2)
			if len(pair) == 2 {
				headers[pair[0]] = pair[1]
			}
		}
		qrynFmt := &qrynFormatter{
			formatter: Logger.Formatter,
			url:       settings.Qryn.Url,
			app:       settings.Qryn.App,
			hostname:  hostname,
			headers:   headers,
		}
		Logger.SetFormatter(qrynFmt)
		qrynFmt.Run()
	}

	if settings.Stdout {
		Logger.SetOutput(os.Stdout)
		log.SetOutput(os.Stdout)
	}

	level := settings.Level
	if level == "" {
		level = "error"
	}
	if logLevel, err := logrus.ParseLevel(level); err == nil {
		Logger.SetLevel(logLevel)
	} else {
		Logger.Error("Couldn't parse loglevel ", level)
		Logger.SetLevel(logrus.ErrorLevel)
	}

	Logger.Info("init logging system")

	if !settings.Stdout && !settings.SysLog {
		configureLocalFileSystemHook()
	} else if !settings.Stdout {
		configureSyslogHook()
	}
}

func configureLocalFileSystemHook() {
	logPath := config.Cloki.Setting.LOG_SETTINGS.Path
	logName := config.Cloki.Setting.LOG_SETTINGS.Name

	if p := os.Getenv("APPLOGPATH"); p != "" {
		logPath = p
	}
	if n := os.Getenv("APPLOGNAME"); n != "" {
		logName = n
	}

	ext := filepath.Ext(logName)
	base := strings.TrimSuffix(logName, ext)

	rlogs, err := rotatelogs.New(
		logPath+"/"+base+"_%Y%m%d%H%M"+ext,
		rotatelogs.WithLinkName(logPath+"/"+logName),
		rotatelogs.WithMaxAge(time.Duration(config.Cloki.Setting.LOG_SETTINGS.MaxAgeDays)*24*time.Hour),
		rotatelogs.WithRotationTime(time.Duration(config.Cloki.Setting.LOG_SETTINGS.RotationHours)*time.Hour),
	)
	if err != nil {
		Logger.Error("Local file system hook initialize fail")
		return
	}

	Logger.SetOutput(rlogs)
	log.SetOutput(rlogs)
}

var syslogSeverity = map[string]syslog.Priority{
	"emerg":   syslog.LOG_EMERG,
	"alert":   syslog.LOG_ALERT,
	"crit":    syslog.LOG_CRIT,
	"err":     syslog.LOG_ERR,
	"warning": syslog.LOG_WARNING,
	"notice":  syslog.LOG_NOTICE,
	"info":    syslog.LOG_INFO,
	"debug":   syslog.LOG_DEBUG,
}

func configureSyslogHook() {
	Logger.Info("Init syslog...")

	severity, ok := syslogSeverity[config.Cloki.Setting.LOG_SETTINGS.SysLogLevel]
	if !ok {
		severity = syslog.LOG_INFO
	}
	syslogger, err := syslog.New(severity, "lmnr-app-server")
	if err != nil {
		Logger.Error("Unable to connect to syslog: ", err)
		return
	}

	Logger.SetOutput(syslogger)
	log.SetOutput(syslogger)
}

func Info(args ...interface{}) {
	Logger.Info(args...)
}

func Error(args ...interface{}) {
	Logger.Error(args...)
}

func Debug(args ...interface{}) {
	Logger.Debug(args...)
}
