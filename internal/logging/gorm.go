package logging

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	gormlogger "gorm.io/gorm/logger"
)

// gormWriter routes gorm's printf style output into zerolog.
type gormWriter struct {
	level zerolog.Level
}

func (w gormWriter) Printf(format string, args ...interface{}) {
	L().WithLevel(w.level).Str("component", "gorm").Msg(fmt.Sprintf(format, args...))
}

// NewGormLogger returns a gorm logger that writes through zerolog. Every SQL
// statement is traced when the global level is debug or lower; otherwise only
// slow queries and errors are reported, as warnings.
func NewGormLogger(slowThreshold time.Duration) gormlogger.Interface {
	if L().GetLevel() <= zerolog.DebugLevel {
		return gormlogger.New(gormWriter{level: zerolog.DebugLevel}, gormlogger.Config{
			SlowThreshold:             slowThreshold,
			LogLevel:                  gormlogger.Info,
			IgnoreRecordNotFoundError: true,
		})
	}
	return gormlogger.New(gormWriter{level: zerolog.WarnLevel}, gormlogger.Config{
		SlowThreshold:             slowThreshold,
		LogLevel:                  gormlogger.Warn,
		IgnoreRecordNotFoundError: true,
	})
}
