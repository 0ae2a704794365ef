//go:generate go run go.uber.org/mock/mockgen -source=worker.go -destination=../../mocks/mock_worker.go -package=mocks
package workers

import (
	"context"
	"fmt"
	"strings"
)

// Worker is a long-running loop owned by a Supervisor.
// Returning nil means the work is done and must not be restarted.
type Worker interface {
	Run(ctx context.Context) error
}

// workerName is the bare type name, used as a log attribute.
func workerName(w Worker) string {
	name := fmt.Sprintf("%T", w)
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	return name
}
