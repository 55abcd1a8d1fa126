// ABOUTME: Open-container tracking: which parent a freshly decoded child attaches to.
// ABOUTME: A value held by the walker, never package state, so walkers stay independent.
package importer

import (
	"github.com/google/uuid"
	"github.com/harperreed/hkimport/internal/models"
)

// slot is one open-container position. The format nests at most one level
// deep per container kind, so a single slot suffices (no stack).
//
// fresh distinguishes a container accepted this run from one resolved to an
// existing duplicate: children without identity keys of their own (events,
// sensitivity points, metadata, beat samples) attach only under a fresh
// parent, otherwise re-running an import would re-insert them. Records inside
// a duplicate correlation still attach, because the link table carries its
// own dedup.
type slot struct {
	id    uuid.UUID
	open  bool
	fresh bool
}

func (s *slot) set(id uuid.UUID, fresh bool) {
	s.id = id
	s.open = true
	s.fresh = fresh
}

func (s *slot) clear() {
	*s = slot{}
}

// parentContext holds the walker's open-container slots plus the metadata
// attachment target.
type parentContext struct {
	correlation slot
	workout     slot
	audiogram   slot
	vision      slot
	hrvList     slot
	record      slot

	metadataKind models.Kind
	metadataID   uuid.UUID
	metadataOpen bool

	// metadataSuppressed marks a duplicate container: its metadata entries
	// already exist, so they are dropped silently instead of flagged as
	// orphans.
	metadataSuppressed bool
}

// setMetadataParent marks the element metadata entries currently attach to.
func (c *parentContext) setMetadataParent(kind models.Kind, id uuid.UUID) {
	c.metadataKind = kind
	c.metadataID = id
	c.metadataOpen = true
	c.metadataSuppressed = false
}

// suppressMetadata marks the open container as a duplicate from an earlier
// run; metadata entries under it are neither stored nor counted as orphans.
func (c *parentContext) suppressMetadata() {
	c.metadataKind = ""
	c.metadataID = uuid.Nil
	c.metadataOpen = false
	c.metadataSuppressed = true
}

func (c *parentContext) clearMetadataParent() {
	c.metadataKind = ""
	c.metadataID = uuid.Nil
	c.metadataOpen = false
	c.metadataSuppressed = false
}

// closeTag clears whatever slot the leaving container held. Record slots
// survive a Record close inside an open correlation: the export nests
// correlation member records one level down, and the correlation close
// handles the final clear.
func (c *parentContext) closeTag(tag string) {
	switch tag {
	case "Correlation":
		c.correlation.clear()
		c.clearMetadataParent()
	case "Workout":
		c.workout.clear()
		c.clearMetadataParent()
	case "Audiogram":
		c.audiogram.clear()
	case "VisionPrescription":
		c.vision.clear()
	case "Record":
		if !c.correlation.open {
			c.record.clear()
			c.clearMetadataParent()
		}
	case "HeartRateVariabilityMetadataList":
		c.hrvList.clear()
	}
}
