// Package mmap maps index files read-only.
//
// LocalStore serves blobs from mappings, so reading a packed index.bin
// goes straight from the page cache into the unpacker without an extra
// heap copy of the file.
//
//	m, err := mmap.Open(path)
//	if err != nil { ... }
//	defer m.Close()
//	data, err := m.Bytes()
//
// Unix uses mmap(2) with a sequential madvise hint. Windows uses
// CreateFileMapping and MapViewOfFile.
package mmap
