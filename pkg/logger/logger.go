package logger

import (
	"io"
	"log"
	"os"

	"github.com/sirupsen/logrus"
)

// Log is the global, configured logrus instance.
var Log *logrus.Logger

// InitLogger sets up the global logger: structured JSON to both stdout and a
// local log file, Info level.
func InitLogger() {
	Log = logrus.New()

	// JSON logs can be shipped to ELK/Loki as-is.
	Log.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: "2006-01-02 15:04:05",
	})

	file, err := os.OpenFile("vidtube.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		log.Fatalf("cannot open log file: %v", err)
	}

	mw := io.MultiWriter(os.Stdout, file)
	Log.SetOutput(mw)

	Log.SetLevel(logrus.InfoLevel)
}
