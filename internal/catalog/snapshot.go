package catalog

// Snapshot is a consistent, read-only view of the catalog. Videos keep
// insertion order.
type Snapshot struct {
	Videos      []Video
	Collections []Collection

	videoIndex      map[string]int
	collectionIndex map[string]int
}

// NewSnapshot indexes the provided rows. The slices are owned by the snapshot
// afterwards.
func NewSnapshot(videos []Video, collections []Collection) *Snapshot {
	s := &Snapshot{
		Videos:          videos,
		Collections:     collections,
		videoIndex:      make(map[string]int, len(videos)),
		collectionIndex: make(map[string]int, len(collections)),
	}
	for i, v := range videos {
		s.videoIndex[v.ID] = i
	}
	for i, c := range collections {
		s.collectionIndex[c.ID] = i
	}
	return s
}

// Video looks up a video by ID.
func (s *Snapshot) Video(id string) (Video, bool) {
	i, ok := s.videoIndex[id]
	if !ok {
		return Video{}, false
	}
	return s.Videos[i], true
}

// Collection looks up a collection by ID.
func (s *Snapshot) Collection(id string) (Collection, bool) {
	i, ok := s.collectionIndex[id]
	if !ok {
		return Collection{}, false
	}
	return s.Collections[i], true
}

// ActiveVideos returns the videos whose collection exists and is active.
func (s *Snapshot) ActiveVideos() []Video {
	out := make([]Video, 0, len(s.Videos))
	for _, v := range s.Videos {
		if c, ok := s.Collection(v.CollectionID); ok && c.Active {
			out = append(out, v)
		}
	}
	return out
}

// ActiveCollections returns the active collections in creation order.
func (s *Snapshot) ActiveCollections() []Collection {
	out := make([]Collection, 0, len(s.Collections))
	for _, c := range s.Collections {
		if c.Active {
			out = append(out, c)
		}
	}
	return out
}

// CollectionVideos returns the member videos of a collection.
func (s *Snapshot) CollectionVideos(collectionID string) []Video {
	var out []Video
	for _, v := range s.Videos {
		if v.CollectionID == collectionID {
			out = append(out, v)
		}
	}
	return out
}
