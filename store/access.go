package store

import (
	"os"

	"github.com/edsrzf/mmap-go"
)

// Arena abstracts over how a segment's committed block bytes are held in
// memory: Ram preloads the whole file; Mmap resolves pages on demand
// through the OS (spec.md §6).
type Arena interface {
	Bytes() []byte
	Close() error
}

// ramArena is a fully-resident byte slice read once from disk.
type ramArena struct {
	data []byte
}

func (a *ramArena) Bytes() []byte { return a.data }
func (a *ramArena) Close() error  { return nil }

// OpenRam reads the whole file at path into memory.
func OpenRam(path string) (Arena, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return &ramArena{data: data}, nil
}

// mmapArena maps a file read-only; reads are resolved by the OS on
// demand and pages are shared read-only across concurrent search tasks
// (spec.md §5).
type mmapArena struct {
	file *os.File
	mm   mmap.MMap
}

func (a *mmapArena) Bytes() []byte { return a.mm }

func (a *mmapArena) Close() error {
	if err := a.mm.Unmap(); err != nil {
		return err
	}

	return a.file.Close()
}

// OpenMmap memory-maps the file at path read-only.
func OpenMmap(path string) (Arena, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	mm, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		_ = f.Close()

		return nil, err
	}

	return &mmapArena{file: f, mm: mm}, nil
}
