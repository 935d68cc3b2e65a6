package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

var log *logrus.Logger

func Init() {
	log = logrus.New()
	log.SetOutput(os.Stdout)

	if os.Getenv("ENVIRONMENT") == "production" {
		log.SetFormatter(&logrus.JSONFormatter{})
		log.SetLevel(logrus.InfoLevel)
	} else {
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
		log.SetLevel(logrus.DebugLevel)
	}
}

// ensure tolerates packages logging before main calls Init (tests mostly).
func ensure() *logrus.Logger {
	if log == nil {
		Init()
	}
	return log
}

func Info(args ...interface{}) {
	ensure().Info(args...)
}

func Error(args ...interface{}) {
	ensure().Error(args...)
}

func Debug(args ...interface{}) {
	ensure().Debug(args...)
}

func Warn(args ...interface{}) {
	ensure().Warn(args...)
}

func Fatal(args ...interface{}) {
	ensure().Fatal(args...)
}
