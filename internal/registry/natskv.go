package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"schemagate/internal/schema/types"

	"github.com/nats-io/nats.go"
)

// keyPrefixSubjects is the registry bucket layout for registered versions:
// subjects/{subject}/versions/{version}, each holding a JSON schema record.
const keyPrefixSubjects = "subjects/"

// KVClient reads a schema registry's JetStream KeyValue bucket directly,
// bypassing the REST API. It never writes: registered versions belong to the
// registry.
type KVClient struct {
	kv nats.KeyValue
}

var _ Client = (*KVClient)(nil)

// NewKVClient wraps an existing KeyValue bucket handle.
func NewKVClient(kv nats.KeyValue) *KVClient {
	return &KVClient{kv: kv}
}

// DialKV connects to a NATS server and opens the registry's schema bucket.
// The returned close function releases the connection.
func DialKV(natsURL, bucket string) (*KVClient, func(), error) {
	nc, err := nats.Connect(natsURL,
		nats.Name("schemagate"),
		nats.Timeout(5*time.Second),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to NATS: %w", err)
	}

	js, err := nc.JetStream()
	if err != nil {
		nc.Close()
		return nil, nil, fmt.Errorf("get JetStream context: %w", err)
	}

	kv, err := js.KeyValue(bucket)
	if err != nil {
		nc.Close()
		return nil, nil, fmt.Errorf("open bucket %s: %w", bucket, err)
	}

	return NewKVClient(kv), nc.Close, nil
}

// Versions lists the version numbers stored under the subject's key prefix,
// sorted ascending. The nats.KeyValue API takes no context; ctx satisfies the
// Client contract.
func (c *KVClient) Versions(ctx context.Context, subject string) ([]int, error) {
	keys, err := c.kv.Keys()
	if err != nil {
		if errors.Is(err, nats.ErrNoKeysFound) {
			return nil, fmt.Errorf("%s: %w", subject, ErrSubjectNotFound)
		}
		return nil, fmt.Errorf("list keys: %w", err)
	}

	prefix := versionPrefix(subject)
	var versions []int
	for _, key := range keys {
		if !strings.HasPrefix(key, prefix) {
			continue
		}

		version, err := strconv.Atoi(strings.TrimPrefix(key, prefix))
		if err != nil {
			continue
		}
		versions = append(versions, version)
	}

	if len(versions) == 0 {
		return nil, fmt.Errorf("%s: %w", subject, ErrSubjectNotFound)
	}

	sort.Ints(versions)
	return versions, nil
}

// Schema fetches the schema content of one registered version.
func (c *KVClient) Schema(ctx context.Context, subject string, version int) (string, error) {
	entry, err := c.kv.Get(fmt.Sprintf("%s%d", versionPrefix(subject), version))
	if err != nil {
		return "", fmt.Errorf("get version %d of %s: %w", version, subject, err)
	}

	var record types.Schema
	if err := json.Unmarshal(entry.Value(), &record); err != nil {
		return "", fmt.Errorf("unmarshal schema record: %w", err)
	}

	return record.Schema, nil
}

func versionPrefix(subject string) string {
	return fmt.Sprintf("%s%s/versions/", keyPrefixSubjects, subject)
}
