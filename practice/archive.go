package practice

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"

	"github.com/jetctf/jetctf-web/game"
)

// ArchiveVersion is the current export format version.
const ArchiveVersion = 1

// Archive is the portable export of a map's practice setup: the bot
// and drill definitions plus every recorded trail, shared between
// players as a single compressed file.
type Archive struct {
	Version int               `json:"version"`
	MapName string            `json:"map_name"`
	Author  string            `json:"author,omitempty"`
	Bots    []BotSpec         `json:"bots,omitempty"`
	Drills  []DrillSpec       `json:"drills,omitempty"`
	Trails  []game.RouteTrail `json:"trails,omitempty"`
}

// Export writes a zstd-compressed archive of the practice data and
// trails.
func Export(w io.Writer, data Data, trails []game.RouteTrail) error {
	arc := Archive{
		Version: ArchiveVersion,
		MapName: data.MapName,
		Author:  data.Author,
		Bots:    data.Bots,
		Drills:  data.Drills,
		Trails:  trails,
	}
	zw, err := zstd.NewWriter(w)
	if err != nil {
		return fmt.Errorf("open archive writer: %w", err)
	}
	if err := json.NewEncoder(zw).Encode(arc); err != nil {
		zw.Close()
		return fmt.Errorf("encode archive: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("flush archive: %w", err)
	}
	return nil
}

// Import reads, schema-validates, and decodes an archive produced by
// Export. Validation happens before decoding so a malformed file can't
// smuggle junk into the practice data.
func Import(r io.Reader) (Archive, error) {
	var arc Archive
	zr, err := zstd.NewReader(r)
	if err != nil {
		return arc, fmt.Errorf("open archive reader: %w", err)
	}
	defer zr.Close()

	raw, err := io.ReadAll(zr)
	if err != nil {
		return arc, fmt.Errorf("read archive: %w", err)
	}
	if err := ValidateArchive(raw); err != nil {
		return arc, err
	}
	if err := json.Unmarshal(raw, &arc); err != nil {
		return arc, fmt.Errorf("decode archive: %w", err)
	}
	if arc.Version != ArchiveVersion {
		return arc, fmt.Errorf("unsupported archive version %d", arc.Version)
	}
	data := Data{MapName: arc.MapName, Author: arc.Author, Bots: arc.Bots, Drills: arc.Drills}
	if err := data.Validate(); err != nil {
		return arc, fmt.Errorf("archive contents: %w", err)
	}
	return arc, nil
}

// Data returns the archive's bot and drill definitions as practice
// data.
func (a Archive) Data() Data {
	return Data{MapName: a.MapName, Author: a.Author, Bots: a.Bots, Drills: a.Drills}
}
