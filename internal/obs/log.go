package obs

import (
	"encoding/json"
	"log"
	"os"
	"sync"
)

const marshalFailedLine = `{"ts":"error","level":"error","msg":"log marshal failed"}`

var (
	once sync.Once
	std  *log.Logger
)

// Logger returns the process-wide line logger. Output goes to stdout
// with no prefix or flags; every line is a self-contained JSON object.
func Logger() *log.Logger {
	once.Do(func() {
		std = log.New(os.Stdout, "", 0)
	})
	return std
}

// LogRequest writes one JSON log line from the given fields.
func LogRequest(entry map[string]any) {
	data, err := json.Marshal(entry)
	if err != nil {
		Logger().Println(marshalFailedLine)
		return
	}
	Logger().Println(string(data))
}
