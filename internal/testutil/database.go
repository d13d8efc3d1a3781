package testutil

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// EnvMongoURI names an existing MongoDB to test against. When unset, a
// throwaway container is started once per test binary.
const EnvMongoURI = "FITTRACK_TEST_MONGO_URI"

const mongoImage = "mongo:7"

var (
	containerOnce sync.Once
	containerURI  string
	containerErr  error
)

// TestContext returns a context bounded for a single test's DB work.
func TestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}

// SetupTestDB returns a fresh, uniquely named database and drops it when
// the test ends. The test is skipped when no MongoDB is reachable.
func SetupTestDB(t *testing.T) *mongo.Database {
	t.Helper()

	uri := strings.TrimSpace(os.Getenv(EnvMongoURI))
	if uri == "" {
		testcontainers.SkipIfProviderIsNotHealthy(t)
		containerOnce.Do(startContainer)
		if containerErr != nil {
			t.Skipf("mongodb container unavailable: %v", containerErr)
		}
		uri = containerURI
	}

	ctx, cancel := TestContext()
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		t.Skipf("mongodb connect failed: %v", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		t.Skipf("mongodb ping failed: %v", err)
	}

	db := client.Database(fmt.Sprintf("fittrack_test_%d", time.Now().UnixNano()))
	t.Cleanup(func() {
		ctx, cancel := TestContext()
		defer cancel()
		_ = db.Drop(ctx)
		_ = client.Disconnect(ctx)
	})
	return db
}

func startContainer() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	c, err := mongodb.Run(ctx, mongoImage)
	if err != nil {
		containerErr = err
		return
	}
	containerURI, containerErr = c.ConnectionString(ctx)
}
