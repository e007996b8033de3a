package config

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// SetupLogging aplica log_level e log_file ao logger padrão do logrus.
// O arquivo de log recebe uma cópia da saída do console; o chamador fecha o arquivo retornado.
func (c *Config) SetupLogging() (io.Closer, error) {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "15:04:05",
	})

	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		logrus.SetLevel(logrus.InfoLevel)
		return nil, fmt.Errorf("nível de log inválido %q: %w", c.LogLevel, err)
	}
	logrus.SetLevel(level)

	if c.LogFile == "" {
		return nil, nil
	}
	f, err := os.OpenFile(c.LogFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		return nil, fmt.Errorf("falha ao abrir %s: %w", c.LogFile, err)
	}
	logrus.SetOutput(io.MultiWriter(os.Stderr, f))
	return f, nil
}
