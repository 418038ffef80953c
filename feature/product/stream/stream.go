package stream

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"product-configurator/core/reconcile"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"
)

// OriginAttribute is the image attribute carrying the writer tag of a record.
const OriginAttribute = "origin"

// EventHandler runs a committed change through the reconcile engine.
type EventHandler interface {
	Handle(ctx context.Context, ev reconcile.Event) (*reconcile.Outcome, error)
}

// Handler turns DynamoDB stream records into post-commit trigger events.
type Handler struct {
	events EventHandler
	logger *zap.Logger
}

// NewHandler creates a new stream handler.
func NewHandler(h EventHandler, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{events: h, logger: logger}
}

// HandleStream processes a batch of stream records in order.
// The first failing record aborts the batch so Lambda retries it.
func (h *Handler) HandleStream(ctx context.Context, event events.DynamoDBEvent) error {
	for _, record := range event.Records {
		if err := h.processRecord(ctx, record); err != nil {
			h.logger.Error("Failed to process stream record",
				zap.String("event_id", record.EventID),
				zap.Error(err),
			)
			return err
		}
	}
	return nil
}

func (h *Handler) processRecord(ctx context.Context, record events.DynamoDBEventRecord) error {
	ev, ok := ToEvent(record)
	if !ok {
		return nil
	}

	out, err := h.events.Handle(ctx, ev)
	if err != nil {
		return fmt.Errorf("record %s: %w", record.EventID, err)
	}
	if !out.Skipped {
		h.logger.Info("Stream record reconciled",
			zap.String("event_id", record.EventID),
			zap.String("entity", ev.Entity),
			zap.String("id", ev.PrimaryID),
			zap.String("action", string(out.Action)),
		)
	}
	return nil
}

// ToEvent converts a stream record into a post-commit event.
// REMOVE records and unknown event names yield false.
func ToEvent(record events.DynamoDBEventRecord) (reconcile.Event, bool) {
	var kind reconcile.MessageKind
	switch record.EventName {
	case string(events.DynamoDBOperationTypeInsert):
		kind = reconcile.MessageCreate
	case string(events.DynamoDBOperationTypeModify):
		kind = reconcile.MessageUpdate
	default:
		return reconcile.Event{}, false
	}

	newImage := record.Change.NewImage
	payload := make(reconcile.Record, len(newImage))
	for name, v := range newImage {
		payload[name] = attrValue(v)
	}

	primaryID := getStringAttr(record.Change.Keys, reconcile.FieldID)
	if primaryID == "" {
		primaryID = getStringAttr(newImage, reconcile.FieldID)
	}

	return reconcile.Event{
		Stage:         reconcile.PostCommit,
		Kind:          kind,
		Entity:        TableName(record.EventSourceArn),
		PrimaryID:     primaryID,
		ChangedFields: changedFields(record.Change.OldImage, newImage),
		Payload:       payload,
		Depth:         1,
		Origin:        getStringAttr(newImage, OriginAttribute),
	}, true
}

// TableName extracts the table name from a stream ARN of the form
// arn:aws:dynamodb:region:account:table/<name>/stream/<label>.
func TableName(arn string) string {
	_, rest, ok := strings.Cut(arn, ":table/")
	if !ok {
		return ""
	}
	name, _, _ := strings.Cut(rest, "/")
	return name
}

// changedFields lists the attributes whose value differs between the images.
func changedFields(oldImage, newImage map[string]events.DynamoDBAttributeValue) []string {
	seen := make(map[string]bool, len(newImage))
	var changed []string
	for name, v := range newImage {
		seen[name] = true
		old, ok := oldImage[name]
		if !ok || attrString(old) != attrString(v) {
			changed = append(changed, name)
		}
	}
	for name := range oldImage {
		if !seen[name] {
			changed = append(changed, name)
		}
	}
	sort.Strings(changed)
	return changed
}

// getStringAttr extracts a string attribute from a DynamoDB stream image.
func getStringAttr(image map[string]events.DynamoDBAttributeValue, key string) string {
	if v, ok := image[key]; ok && v.DataType() == events.DataTypeString {
		return v.String()
	}
	return ""
}

// attrValue converts scalar attributes to Go values. NULL becomes nil.
func attrValue(v events.DynamoDBAttributeValue) any {
	switch v.DataType() {
	case events.DataTypeString:
		return v.String()
	case events.DataTypeNumber:
		return v.Number()
	case events.DataTypeBoolean:
		return v.Boolean()
	case events.DataTypeNull:
		return nil
	default:
		return attrString(v)
	}
}

func attrString(v events.DynamoDBAttributeValue) string {
	switch v.DataType() {
	case events.DataTypeString:
		return v.String()
	case events.DataTypeNumber:
		return v.Number()
	case events.DataTypeBoolean:
		return fmt.Sprint(v.Boolean())
	case events.DataTypeNull:
		return ""
	case events.DataTypeBinary:
		return string(v.Binary())
	case events.DataTypeStringSet:
		return strings.Join(v.StringSet(), ",")
	case events.DataTypeNumberSet:
		return strings.Join(v.NumberSet(), ",")
	case events.DataTypeList:
		parts := make([]string, 0, len(v.List()))
		for _, item := range v.List() {
			parts = append(parts, attrString(item))
		}
		return "[" + strings.Join(parts, ",") + "]"
	case events.DataTypeMap:
		m := v.Map()
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, k+"="+attrString(m[k]))
		}
		return "{" + strings.Join(parts, ",") + "}"
	default:
		return ""
	}
}
