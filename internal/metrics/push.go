package metrics

import (
	"context"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Push sends everything in the default registry to the Pushgateway at url,
// replacing the metrics previously pushed under job.
func Push(ctx context.Context, url string, job string) error {
	err := push.New(url, job).
		Gatherer(prometheus.DefaultGatherer).
		PushContext(ctx)
	if err != nil {
		return errors.Wrapf(err, "failed to push metrics to %s", url)
	}
	return nil
}
