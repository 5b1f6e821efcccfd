package badger

const keySeparator = ":"

// makeKey generates the key of a model within a collection.
// Format: collection:uniqueId
func makeKey(collection, uniqueID string) []byte {
	return []byte(collection + keySeparator + uniqueID)
}

// makePrefix generates the prefix shared by every key of a collection.
func makePrefix(collection string) []byte {
	return []byte(collection + keySeparator)
}
