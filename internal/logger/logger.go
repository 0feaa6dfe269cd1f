package logger

import (
	"github.com/sirupsen/logrus"
)

// Log доступен сразу, Init перенастраивает уровень и формат.
// Экземпляр никогда не подменяется: пакеты, захватившие Log на старте,
// продолжают писать через настроенный логгер.
var Log = logrus.New()

// Init инициализирует структурированный логгер.
func Init(level string) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	Log.SetLevel(lvl)

	// JSON формат для production, text для development
	Log.SetFormatter(&logrus.JSONFormatter{})
}

// SetTextFormatter устанавливает текстовый формат логов (для development).
func SetTextFormatter() {
	Log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
}
