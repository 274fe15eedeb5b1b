// Package metrics publishes application counters to CloudWatch.
// file: metrics/metrics.go
package metrics

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/cloudwatch"
	"github.com/aws/aws-sdk-go/service/cloudwatch/cloudwatchiface"

	"go-refdata/logger"
)

// Metric names.
const (
	LoginSucceeded  = "LoginSucceeded"
	LoginFailed     = "LoginFailed"
	UserRegistered  = "UserRegistered"
	RecordInserted  = "RecordInserted"
	RecordsSearched = "RecordsSearched"
	RowDeleted      = "RowDeleted"
	CSRFRejected    = "CSRFRejected"
	AdminDenied     = "AdminDenied"
)

// Publisher records a count against a metric, optionally scoped to a table.
type Publisher interface {
	Count(ctx context.Context, name, table string)
}

// Noop discards every metric.
type Noop struct{}

func (Noop) Count(context.Context, string, string) {}

// CloudWatchPublisher sends one datum per call.
type CloudWatchPublisher struct {
	client    cloudwatchiface.CloudWatchAPI
	namespace string
}

// NewCloudWatchPublisher wraps an existing client.
func NewCloudWatchPublisher(client cloudwatchiface.CloudWatchAPI, namespace string) *CloudWatchPublisher {
	return &CloudWatchPublisher{client: client, namespace: namespace}
}

// New returns a CloudWatch publisher for region, or Noop when disabled.
func New(enabled bool, region, namespace string) (Publisher, error) {
	if !enabled {
		return Noop{}, nil
	}
	sess, err := session.NewSession(&aws.Config{Region: aws.String(region)})
	if err != nil {
		return nil, err
	}
	logger.Infof("[metrics] publishing to CloudWatch namespace %s (%s)", namespace, region)
	return NewCloudWatchPublisher(cloudwatch.New(sess), namespace), nil
}

// Count pushes a value of 1. Failures are logged and otherwise ignored.
func (p *CloudWatchPublisher) Count(ctx context.Context, name, table string) {
	datum := &cloudwatch.MetricDatum{
		MetricName: aws.String(name),
		Timestamp:  aws.Time(time.Now()),
		Value:      aws.Float64(1),
		Unit:       aws.String(cloudwatch.StandardUnitCount),
	}
	if table != "" {
		datum.Dimensions = []*cloudwatch.Dimension{
			{
				Name:  aws.String("Table"),
				Value: aws.String(table),
			},
		}
	}

	_, err := p.client.PutMetricDataWithContext(ctx, &cloudwatch.PutMetricDataInput{
		Namespace:  aws.String(p.namespace),
		MetricData: []*cloudwatch.MetricDatum{datum},
	})
	if err != nil {
		logger.Errorf("[metrics] CloudWatch metric failed (%s): %v", name, err)
	}
}
