// Package stream adapts DynamoDB stream batches to post-commit reconcile events.
//
// It serves deployments where writes reach the product tables without going
// through the HTTP API, such as the CRM writing to MySQL directly. A CDC
// replication task (AWS DMS with a DynamoDB target) mirrors each SQL table into
// a DynamoDB table of the same name with streams enabled in NEW_AND_OLD_IMAGES
// mode, and the stream command consumes those streams as a Lambda function.
//
// INSERT records become create events, MODIFY records become update events and
// REMOVE records are ignored. Changed fields are the attributes whose old and
// new values differ. The entity is the table name taken from the stream ARN.
//
// The SQL tables carry no origin column. A replication task can stamp an origin
// attribute on rows written by the engine's database user, and records carrying
// it pass it on so the engine ignores its own writes. Unstamped replays of API
// writes resync again, which rebuilds the same lines.
package stream
