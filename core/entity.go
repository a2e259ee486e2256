package core

// Entity is a stable handle into the world's arena
// Zero is never issued and marks "no entity"
type Entity uint64

// NoEntity is the zero handle
const NoEntity Entity = 0
