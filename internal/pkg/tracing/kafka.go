package tracing

import (
	"context"

	"github.com/twmb/franz-go/pkg/kgo"
	"go.opentelemetry.io/otel/propagation"
)

// InjectTraceContext serializes the current trace context into Kafka record
// headers using W3C Trace Context propagation, so that consumers can continue
// the trace started by the producer.
func InjectTraceContext(ctx context.Context) []kgo.RecordHeader {
	carrier := propagation.MapCarrier{}
	propagation.TraceContext{}.Inject(ctx, carrier)

	headers := make([]kgo.RecordHeader, 0, len(carrier))
	for key, value := range carrier {
		headers = append(headers, kgo.RecordHeader{
			Key:   key,
			Value: []byte(value),
		})
	}
	return headers
}
