package mongoose

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"

	"go.eggybyte.com/yolk/internal/errors"
	"go.eggybyte.com/yolk/internal/log"
	"go.eggybyte.com/yolk/internal/orm"
)

// ChangelogCollection is where migrate-mongo records applied migrations.
const ChangelogCollection = "changelog"

// serverSelectionTimeout bounds how long a CLI command waits for MongoDB.
const serverSelectionTimeout = 5 * time.Second

// DatabaseConnection connects to MongoDB and pings the primary.
func (a *Adapter) DatabaseConnection(ctx context.Context, cfg orm.DatabaseConfig) (orm.Connection, error) {
	database, err := DatabaseName(cfg.URL)
	if err != nil {
		return nil, err
	}

	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(cfg.URL).
		SetServerSelectionTimeout(serverSelectionTimeout).
		SetAppName("yolk"))
	if err != nil {
		return nil, errors.Wrap(errors.CodeUnavailable, "mongoose.connect", err)
	}

	conn := &connection{client: client, database: database, logger: loggerOf(cfg.Logger)}
	if err := conn.Ping(ctx); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return conn, nil
}

// DatabaseName validates a MongoDB URI and returns its database name.
func DatabaseName(uri string) (string, error) {
	uri = strings.TrimSpace(uri)
	if uri == "" {
		return "", errors.New(errors.CodeInvalidArgument, "database.url is required to connect")
	}
	cs, err := connstring.ParseAndValidate(uri)
	if err != nil {
		return "", errors.Wrap(errors.CodeInvalidArgument, "mongoose.url", err)
	}
	if cs.Database == "" {
		return "", errors.Newf(errors.CodeInvalidArgument, "database URL %q has no database name", redactURI(uri))
	}
	return cs.Database, nil
}

type connection struct {
	client   *mongo.Client
	database string
	logger   log.Logger
}

func (c *connection) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx, readpref.Primary()); err != nil {
		return errors.Wrap(errors.CodeUnavailable, "mongoose.ping", err)
	}
	return nil
}

func (c *connection) AppliedMigrations(ctx context.Context) ([]string, error) {
	coll := c.client.Database(c.database).Collection(ChangelogCollection)

	findOpts := options.Find().
		SetSort(bson.D{{Key: "fileName", Value: 1}}).
		SetProjection(bson.D{{Key: "fileName", Value: 1}})

	cursor, err := coll.Find(ctx, bson.D{}, findOpts)
	if err != nil {
		return nil, errors.Wrap(errors.CodeUnavailable, "mongoose.changelog", err)
	}
	defer cursor.Close(ctx)

	var entries []struct {
		FileName string `bson:"fileName"`
	}
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, errors.Wrap(errors.CodeInternal, "mongoose.changelog", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.FileName)
	}
	c.logger.Debug("read changelog", log.Str("database", c.database), log.Int("applied", len(names)))
	return names, nil
}

func (c *connection) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), serverSelectionTimeout)
	defer cancel()
	return c.client.Disconnect(ctx)
}

// redactURI hides credentials in a MongoDB URI.
func redactURI(uri string) string {
	scheme, rest, ok := strings.Cut(uri, "://")
	if !ok {
		return uri
	}
	if at := strings.LastIndex(rest, "@"); at >= 0 {
		return scheme + "://***@" + rest[at+1:]
	}
	return uri
}
