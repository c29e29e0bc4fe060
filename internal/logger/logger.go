package logger

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"github.com/rs/zerolog"
)

// Logger wraps zerolog with a component prefix so every line identifies the
// subsystem that produced it.
type Logger struct {
	*zerolog.Logger
	component string
}

// Config controls environment-dependent output.
type Config struct {
	IsProduction bool
	AppEnv       string
}

var envLevels = map[string]zerolog.Level{
	"development": zerolog.DebugLevel,
	"staging":     zerolog.InfoLevel,
	"production":  zerolog.InfoLevel,
}

var levelTags = map[string]string{
	"debug":   "\033[36m[DEBUG]\033[0m",
	"info":    "\033[34m[INFO]\033[0m",
	"success": "\033[32m[SUCCESS]\033[0m",
	"warn":    "\033[33m[WARN]\033[0m",
	"error":   "\033[31m[ERROR]\033[0m",
	"fatal":   "\033[35m[FATAL]\033[0m",
}

// New creates a logger for a component, reading the environment from APP_ENV.
func New(component string) *Logger {
	return NewWithConfig(component, Config{
		IsProduction: os.Getenv("APP_ENV") == "production",
		AppEnv:       os.Getenv("APP_ENV"),
	})
}

// NewWithConfig creates a logger with explicit configuration.
func NewWithConfig(component string, config Config) *Logger {
	zerolog.TimeFieldFormat = time.RFC3339

	output := zerolog.ConsoleWriter{
		Out: os.Stdout,
		FormatMessage: func(i interface{}) string {
			return fmt.Sprintf("[%s] %s", component, i)
		},
		FormatLevel: func(i interface{}) string {
			if level, ok := i.(string); ok {
				if tag, exists := levelTags[level]; exists {
					return tag
				}
				return fmt.Sprintf("[%s]", level)
			}
			return "???"
		},
	}

	// Timestamps are noise when a collector adds its own.
	if config.IsProduction {
		output.TimeFormat = ""
	} else {
		output.TimeFormat = "2006-01-02 15:04:05"
	}

	var zl zerolog.Logger
	if config.IsProduction {
		zl = zerolog.New(output).Level(levelFor(config.AppEnv))
	} else {
		zl = zerolog.New(output).
			Level(levelFor(config.AppEnv)).
			With().
			Timestamp().
			Logger()
	}

	return &Logger{
		Logger:    &zl,
		component: component,
	}
}

func levelFor(env string) zerolog.Level {
	if level, exists := envLevels[env]; exists {
		return level
	}
	return zerolog.DebugLevel
}

// Component returns the component name this logger was created with.
func (l *Logger) Component() string { return l.component }

// Event accessors. Success is rendered as info with a success tag.
func (l *Logger) Debug() *zerolog.Event   { return l.Logger.Debug() }
func (l *Logger) Info() *zerolog.Event    { return l.Logger.Info() }
func (l *Logger) Success() *zerolog.Event { return l.Logger.Info().Str("level", "success") }
func (l *Logger) Warn() *zerolog.Event    { return l.Logger.Warn() }
func (l *Logger) Error() *zerolog.Event   { return l.Logger.Error() }

func (l *Logger) LogDebug(msg string)   { l.Debug().Msg(msg) }
func (l *Logger) LogInfo(msg string)    { l.Info().Msg(msg) }
func (l *Logger) LogSuccess(msg string) { l.Success().Msg(msg) }
func (l *Logger) LogWarn(msg string)    { l.Warn().Msg(msg) }

func (l *Logger) LogError(msg string, err error) {
	if err != nil {
		l.Error().Err(err).Msg(msg)
		return
	}
	l.Error().Msg(msg)
}

func (l *Logger) LogFatal(msg string, err error) {
	if err != nil {
		l.Fatal().Err(err).Msg(msg)
		return
	}
	l.Fatal().Msg(msg)
}

func (l *Logger) LogDebugf(format string, v ...interface{})   { l.Debug().Msgf(format, v...) }
func (l *Logger) LogInfof(format string, v ...interface{})    { l.Info().Msgf(format, v...) }
func (l *Logger) LogSuccessf(format string, v ...interface{}) { l.Success().Msgf(format, v...) }
func (l *Logger) LogWarnf(format string, v ...interface{})    { l.Warn().Msgf(format, v...) }
func (l *Logger) LogErrorf(format string, v ...interface{})   { l.Error().Msgf(format, v...) }
func (l *Logger) LogFatalf(format string, v ...interface{})   { l.Fatal().Msgf(format, v...) }

// WithFields starts an info event carrying structured fields.
func (l *Logger) WithFields(fields map[string]interface{}) *zerolog.Event {
	event := l.Info()
	for k, v := range fields {
		event = event.Interface(k, v)
	}
	return event
}

// StripANSI removes color escape sequences, for error strings that end up in
// HTTP responses or result records.
func StripANSI(str string) string {
	ansiPattern := regexp.MustCompile("\x1B\\[[0-9;]*[a-zA-Z]")
	return ansiPattern.ReplaceAllString(str, "")
}
