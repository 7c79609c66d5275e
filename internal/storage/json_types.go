package storage

// CatalogMeta describes a directory of datasets
type CatalogMeta struct {
	Name     string   `json:"name"`
	Version  int      `json:"version"`
	Datasets []string `json:"datasets,omitempty"`
}

// FrameMeta is the meta.json of one dataset directory
type FrameMeta struct {
	Name           string         `json:"name"`
	Columns        []ColumnMeta   `json:"columns"`
	Geometry       []GeometryMeta `json:"geometry,omitempty"`
	Index          []string       `json:"index,omitempty"`       // leading data columns that hold the row index
	IndexNames     []string       `json:"index_names,omitempty"` // original level names, "" for unnamed
	IndexComposite bool           `json:"index_composite,omitempty"`
	RowCount       int64          `json:"row_count,omitempty"`
}

type ColumnMeta struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type GeometryMeta struct {
	Name string `json:"name"`
	CRS  string `json:"crs,omitempty"`
}
