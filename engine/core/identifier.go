package core

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

var identifierMutex sync.Mutex
var owners map[uuid.UUID]interface{}

// IdentifierAcquire generates a unique id and registers its owner,
// typically a render resource.
func IdentifierAcquire(owner interface{}) uuid.UUID {
	identifierMutex.Lock()
	defer identifierMutex.Unlock()
	if owners == nil {
		owners = make(map[uuid.UUID]interface{})
	}
	id := uuid.New()
	owners[id] = owner
	return id
}

// IdentifierRelease frees the id for reuse. Releasing an unknown id is an error.
func IdentifierRelease(id uuid.UUID) error {
	identifierMutex.Lock()
	defer identifierMutex.Unlock()
	if _, ok := owners[id]; !ok {
		return fmt.Errorf("identifier release: id '%s' was never acquired. Nothing was done", id)
	}
	delete(owners, id)
	return nil
}

// IdentifierOwner returns the owner registered for the id, or nil.
func IdentifierOwner(id uuid.UUID) interface{} {
	identifierMutex.Lock()
	defer identifierMutex.Unlock()
	return owners[id]
}
