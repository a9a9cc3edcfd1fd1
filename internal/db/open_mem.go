package db

// openMem returns a process-local store. Contents vanish with the process.
func openMem() Store {
	return newMemStore()
}
