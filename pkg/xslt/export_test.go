package xslt

import "github.com/hsiuhsiu/libxslt-go/pkg/xslt/async"

// submitBlocker queues a task that holds a worker until gate closes.
func submitBlocker(lib *Library, started chan<- struct{}, gate <-chan struct{}) (*async.Future[struct{}], error) {
	return async.Submit(lib.runner, "block",
		func() (struct{}, error) {
			close(started)
			<-gate
			return struct{}{}, nil
		},
		func(v struct{}, err error) (struct{}, error) { return v, err })
}
