package dao

// Vendor names a resource store backend
type Vendor string

const (
	// VendorMemory keeps resources in process memory
	VendorMemory Vendor = "memory"
	// VendorFs keeps one JSON document per resource on an afs storage
	VendorFs Vendor = "fs"
)
