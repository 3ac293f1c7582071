package metrics

import (
	"context"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
)

type CloudWatchCollector struct {
	cw         *cloudwatch.Client
	namespace  string
	dimensions []types.Dimension
	timeout    time.Duration
}

func NewCloudWatchCollector(cw *cloudwatch.Client, namespace string, dimensions map[string]string) *CloudWatchCollector {
	dims := make([]types.Dimension, 0, len(dimensions))
	for k, v := range dimensions {
		dims = append(dims, types.Dimension{Name: aws.String(k), Value: aws.String(v)})
	}
	return &CloudWatchCollector{
		cw:         cw,
		namespace:  namespace,
		dimensions: dims,
		timeout:    10 * time.Second, // per-call timeout
	}
}

// NewCloudWatchFromEnv uses the default AWS credential chain.
func NewCloudWatchFromEnv(ctx context.Context, namespace string, dimensions map[string]string) (*CloudWatchCollector, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, err
	}
	return NewCloudWatchCollector(cloudwatch.NewFromConfig(cfg), namespace, dimensions), nil
}

func (c *CloudWatchCollector) ForwardError() {
	c.put("ForwardError", c.datum("ForwardError", types.StandardUnitCount, 1))
}

// Add one success and a latency metric (milliseconds)
func (c *CloudWatchCollector) ForwardSuccess(timeMs int64) {
	c.put("ForwardSuccess",
		c.datum("ForwardSuccess", types.StandardUnitCount, 1),
		c.datum("ForwardLatency", types.StandardUnitMilliseconds, float64(timeMs)),
	)
}

func (c *CloudWatchCollector) datum(name string, unit types.StandardUnit, value float64) types.MetricDatum {
	now := time.Now()
	return types.MetricDatum{
		MetricName: aws.String(name),
		Timestamp:  &now,
		Dimensions: c.dimensions,
		Unit:       unit,
		Value:      aws.Float64(value),
	}
}

func (c *CloudWatchCollector) put(what string, data ...types.MetricDatum) {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()
	_, err := c.cw.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace:  &c.namespace,
		MetricData: data,
	})
	if err != nil {
		slog.Error("Failed to send CloudWatch metric for "+what, "error", err)
	}
}

var _ Collector = (*CloudWatchCollector)(nil)
