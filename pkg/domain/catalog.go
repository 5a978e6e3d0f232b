package domain

import "sync"

// Domain identifiers of the built-in catalog
const (
	Items           ID = "items"
	Archives        ID = "archives"
	Entries         ID = "entries"
	Properties      ID = "properties"
	Statistics      ID = "statistics"
	Artifacts       ID = "artifacts"
	Dependencies    ID = "dependencies"
	Modules         ID = "modules"
	Builds          ID = "builds"
	BuildProperties ID = "buildProperties"
)

var (
	defaultGraph *Graph
	defaultOnce  sync.Once
)

// Default returns the built-in repository graph. It is built on first use and shared
// read-only afterwards.
func Default() *Graph {
	defaultOnce.Do(func() {
		defaultGraph = MustNewGraph(Catalog()...)
	})
	return defaultGraph
}

// MustNewGraph is like NewGraph but panics on an invalid definition set
func MustNewGraph(defs ...Definition) *Graph {
	g, err := NewGraph(defs...)
	if err != nil {
		panic(err)
	}
	return g
}

// Catalog returns the definitions of the built-in repository domains
func Catalog() []Definition {
	return []Definition{
		{
			ID: Items, Table: "nodes", Key: "node_id",
			Fields: []FieldDef{
				{Name: "repo", Column: "repo", Type: TypeString},
				{Name: "path", Column: "node_path", Type: TypeString},
				{Name: "name", Column: "node_name", Type: TypeString},
				{Name: "type", Column: "node_type", Type: TypeItemType},
				{Name: "size", Column: "bin_length", Type: TypeLong},
				{Name: "depth", Column: "depth", Type: TypeInteger},
				{Name: "created", Column: "created", Type: TypeDate},
				{Name: "createdBy", Column: "created_by", Type: TypeString},
				{Name: "modified", Column: "modified", Type: TypeDate},
				{Name: "modifiedBy", Column: "modified_by", Type: TypeString},
				{Name: "updated", Column: "updated", Type: TypeDate},
				{Name: "sha1", Column: "sha1_actual", Type: TypeString},
				{Name: "md5", Column: "md5_actual", Type: TypeString},
				{Name: "originalSha1", Column: "sha1_original", Type: TypeString},
			},
			Edges: []EdgeDef{
				{To: Archives, ParentColumn: "sha1_actual", ChildColumn: "archive_sha1"},
				{To: Properties, ParentColumn: "node_id", ChildColumn: "node_id"},
				{To: Statistics, ParentColumn: "node_id", ChildColumn: "node_id"},
				{To: Artifacts, ParentColumn: "sha1_actual", ChildColumn: "sha1"},
				{To: Dependencies, ParentColumn: "sha1_actual", ChildColumn: "sha1"},
			},
		},
		{
			ID: Archives, Table: "archives", Key: "archive_id",
			Fields: []FieldDef{
				{Name: "sha1", Column: "archive_sha1", Type: TypeString},
			},
			Edges: []EdgeDef{
				{To: Entries, ParentColumn: "archive_id", ChildColumn: "archive_id"},
				{To: Items, ParentColumn: "archive_sha1", ChildColumn: "sha1_actual"},
			},
		},
		{
			ID: Entries, Table: "archive_entries", Key: "entry_id",
			Fields: []FieldDef{
				{Name: "name", Column: "entry_name", Type: TypeString},
				{Name: "path", Column: "entry_path", Type: TypeString},
			},
			Edges: []EdgeDef{
				{To: Archives, ParentColumn: "archive_id", ChildColumn: "archive_id"},
			},
		},
		{
			ID: Properties, Table: "node_props", Key: "prop_id",
			Fields: []FieldDef{
				{Name: "key", Column: "prop_key", Type: TypeString},
				{Name: "value", Column: "prop_value", Type: TypeString},
			},
			Edges: []EdgeDef{
				{To: Items, ParentColumn: "node_id", ChildColumn: "node_id"},
			},
		},
		{
			ID: Statistics, Table: "stats", Key: "stat_id",
			Fields: []FieldDef{
				{Name: "downloads", Column: "download_count", Type: TypeLong},
				{Name: "downloaded", Column: "last_downloaded", Type: TypeDate},
				{Name: "downloadedBy", Column: "last_downloaded_by", Type: TypeString},
				{Name: "remoteDownloads", Column: "remote_download_count", Type: TypeLong},
				{Name: "remoteDownloaded", Column: "remote_last_downloaded", Type: TypeDate},
				{Name: "remoteDownloadedBy", Column: "remote_last_downloaded_by", Type: TypeString},
			},
			Edges: []EdgeDef{
				{To: Items, ParentColumn: "node_id", ChildColumn: "node_id"},
			},
		},
		{
			ID: Artifacts, Table: "build_artifacts", Key: "artifact_id",
			Fields: []FieldDef{
				{Name: "name", Column: "artifact_name", Type: TypeString},
				{Name: "type", Column: "artifact_type", Type: TypeString},
				{Name: "sha1", Column: "sha1", Type: TypeString},
				{Name: "md5", Column: "md5", Type: TypeString},
			},
			Edges: []EdgeDef{
				{To: Modules, ParentColumn: "module_id", ChildColumn: "module_id"},
				{To: Items, ParentColumn: "sha1", ChildColumn: "sha1_actual"},
			},
		},
		{
			ID: Dependencies, Table: "build_dependencies", Key: "dependency_id",
			Fields: []FieldDef{
				{Name: "name", Column: "dependency_name", Type: TypeString},
				{Name: "scope", Column: "dependency_scopes", Type: TypeString},
				{Name: "type", Column: "dependency_type", Type: TypeString},
				{Name: "sha1", Column: "sha1", Type: TypeString},
				{Name: "md5", Column: "md5", Type: TypeString},
			},
			Edges: []EdgeDef{
				{To: Modules, ParentColumn: "module_id", ChildColumn: "module_id"},
				{To: Items, ParentColumn: "sha1", ChildColumn: "sha1_actual"},
			},
		},
		{
			ID: Modules, Table: "build_modules", Key: "module_id",
			Fields: []FieldDef{
				{Name: "name", Column: "module_name", Type: TypeString},
			},
			Edges: []EdgeDef{
				{To: Builds, ParentColumn: "build_id", ChildColumn: "build_id"},
				{To: Artifacts, ParentColumn: "module_id", ChildColumn: "module_id"},
				{To: Dependencies, ParentColumn: "module_id", ChildColumn: "module_id"},
			},
		},
		{
			ID: Builds, Table: "builds", Key: "build_id",
			Fields: []FieldDef{
				{Name: "name", Column: "build_name", Type: TypeString},
				{Name: "number", Column: "build_number", Type: TypeString},
				{Name: "url", Column: "ci_url", Type: TypeString},
				{Name: "startDate", Column: "build_date", Type: TypeDate},
				{Name: "created", Column: "created", Type: TypeDate},
				{Name: "createdBy", Column: "created_by", Type: TypeString},
				{Name: "modified", Column: "modified", Type: TypeDate},
				{Name: "modifiedBy", Column: "modified_by", Type: TypeString},
			},
			Edges: []EdgeDef{
				{To: Modules, ParentColumn: "build_id", ChildColumn: "build_id"},
				{To: BuildProperties, ParentColumn: "build_id", ChildColumn: "build_id"},
			},
		},
		{
			ID: BuildProperties, Table: "build_props", Key: "prop_id",
			Fields: []FieldDef{
				{Name: "key", Column: "prop_key", Type: TypeString},
				{Name: "value", Column: "prop_value", Type: TypeString},
			},
			Edges: []EdgeDef{
				{To: Builds, ParentColumn: "build_id", ChildColumn: "build_id"},
			},
		},
	}
}
