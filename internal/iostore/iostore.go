// Package iostore persists run results to a SQL result store.
package iostore

import (
	"sync"

	"github.com/huangsam/covtree/internal/contract"
)

// ResultStoreManager holds the ResultStore used by the commands.
type ResultStoreManager struct {
	sync.RWMutex // Protects the store pointer during initialization
	results      contract.ResultStore
}

var _ contract.StoreManager = &ResultStoreManager{} // Compile-time check

// GetResultStore returns the configured ResultStore.
func (mgr *ResultStoreManager) GetResultStore() contract.ResultStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.results
}
