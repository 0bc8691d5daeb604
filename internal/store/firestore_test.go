package store

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/stretchr/testify/require"
)

// TestFirestoreStore runs the store suite against the Firestore emulator.
// It needs FIRESTORE_EMULATOR_HOST, e.g. started with `gcloud emulators firestore start`.
func TestFirestoreStore(t *testing.T) {
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("Skipping Firestore tests: FIRESTORE_EMULATOR_HOST not set")
	}

	ctx := context.Background()
	client, err := firestore.NewClient(ctx, "artivio-test")
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	RunStoreTests(t, func(t *testing.T) Store {
		// every test gets its own collections
		prefix := fmt.Sprintf("%s_%d", strings.NewReplacer("/", "_", " ", "_").Replace(t.Name()), time.Now().UnixNano())
		return NewFirestoreStore(client, prefix+"_tokens", prefix+"_provenance")
	})
}
