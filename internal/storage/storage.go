package storage

// Persisted blob keys shared by the state components
const (
	KeyProductCache = "products_cache_v2"
	KeyOrderDrafts  = "order-drafts-storage"
)

// KeyValueStore defines the persistence substrate for client-local state.
// Implementations hold opaque blobs per key; callers own the serialization.
type KeyValueStore interface {
	// Get returns the blob stored under key, with found=false when absent
	Get(key string) (data []byte, found bool, err error)

	// Set stores the blob under key, replacing any previous value
	Set(key string, data []byte) error

	// Delete removes the key; deleting an absent key is not an error
	Delete(key string) error
}
