package builder

import (
	"github.com/artifactql/aql/pkg/domain"
)

// ItemsPath reaches the items domain
type ItemsPath struct{ domainPath }

// Items starts a path at the items domain
func Items() ItemsPath { return ItemsPath{root(domain.Items)} }

func (p ItemsPath) Repo() StringField { return StringField{p.field("repo")} }
func (p ItemsPath) Path() StringField { return StringField{p.field("path")} }
func (p ItemsPath) Name() StringField { return StringField{p.field("name")} }
func (p ItemsPath) Type() ItemTypeField { return ItemTypeField{p.field("type")} }
func (p ItemsPath) Size() LongField { return LongField{p.field("size")} }
func (p ItemsPath) Depth() IntegerField { return IntegerField{p.field("depth")} }
func (p ItemsPath) Created() DateField { return DateField{p.field("created")} }
func (p ItemsPath) CreatedBy() StringField { return StringField{p.field("createdBy")} }
func (p ItemsPath) Modified() DateField { return DateField{p.field("modified")} }
func (p ItemsPath) ModifiedBy() StringField { return StringField{p.field("modifiedBy")} }
func (p ItemsPath) Updated() DateField { return DateField{p.field("updated")} }
func (p ItemsPath) Sha1() StringField { return StringField{p.field("sha1")} }
func (p ItemsPath) Md5() StringField { return StringField{p.field("md5")} }
func (p ItemsPath) OriginalSha1() StringField { return StringField{p.field("originalSha1")} }

func (p ItemsPath) Archives() ArchivesPath { return ArchivesPath{p.to(domain.Archives)} }
func (p ItemsPath) Properties() PropertiesPath { return PropertiesPath{p.to(domain.Properties)} }
func (p ItemsPath) Statistics() StatisticsPath { return StatisticsPath{p.to(domain.Statistics)} }
func (p ItemsPath) Artifacts() ArtifactsPath { return ArtifactsPath{p.to(domain.Artifacts)} }
func (p ItemsPath) Dependencies() DependenciesPath { return DependenciesPath{p.to(domain.Dependencies)} }

// ArchivesPath reaches the archives domain
type ArchivesPath struct{ domainPath }

// Archives starts a path at the archives domain
func Archives() ArchivesPath { return ArchivesPath{root(domain.Archives)} }

func (p ArchivesPath) Sha1() StringField { return StringField{p.field("sha1")} }

func (p ArchivesPath) Entries() EntriesPath { return EntriesPath{p.to(domain.Entries)} }
func (p ArchivesPath) Items() ItemsPath { return ItemsPath{p.to(domain.Items)} }

// EntriesPath reaches the entries domain
type EntriesPath struct{ domainPath }

// Entries starts a path at the entries domain
func Entries() EntriesPath { return EntriesPath{root(domain.Entries)} }

func (p EntriesPath) Name() StringField { return StringField{p.field("name")} }
func (p EntriesPath) Path() StringField { return StringField{p.field("path")} }

func (p EntriesPath) Archives() ArchivesPath { return ArchivesPath{p.to(domain.Archives)} }

// PropertiesPath reaches the properties domain
type PropertiesPath struct{ domainPath }

// Properties starts a path at the properties domain
func Properties() PropertiesPath { return PropertiesPath{root(domain.Properties)} }

func (p PropertiesPath) Key() StringField { return StringField{p.field("key")} }
func (p PropertiesPath) Value() StringField { return StringField{p.field("value")} }

func (p PropertiesPath) Items() ItemsPath { return ItemsPath{p.to(domain.Items)} }

// StatisticsPath reaches the statistics domain
type StatisticsPath struct{ domainPath }

// Statistics starts a path at the statistics domain
func Statistics() StatisticsPath { return StatisticsPath{root(domain.Statistics)} }

func (p StatisticsPath) Downloads() LongField { return LongField{p.field("downloads")} }
func (p StatisticsPath) Downloaded() DateField { return DateField{p.field("downloaded")} }
func (p StatisticsPath) DownloadedBy() StringField { return StringField{p.field("downloadedBy")} }
func (p StatisticsPath) RemoteDownloads() LongField { return LongField{p.field("remoteDownloads")} }
func (p StatisticsPath) RemoteDownloaded() DateField { return DateField{p.field("remoteDownloaded")} }
func (p StatisticsPath) RemoteDownloadedBy() StringField { return StringField{p.field("remoteDownloadedBy")} }

func (p StatisticsPath) Items() ItemsPath { return ItemsPath{p.to(domain.Items)} }

// ArtifactsPath reaches the artifacts domain
type ArtifactsPath struct{ domainPath }

// Artifacts starts a path at the artifacts domain
func Artifacts() ArtifactsPath { return ArtifactsPath{root(domain.Artifacts)} }

func (p ArtifactsPath) Name() StringField { return StringField{p.field("name")} }
func (p ArtifactsPath) Type() StringField { return StringField{p.field("type")} }
func (p ArtifactsPath) Sha1() StringField { return StringField{p.field("sha1")} }
func (p ArtifactsPath) Md5() StringField { return StringField{p.field("md5")} }

func (p ArtifactsPath) Modules() ModulesPath { return ModulesPath{p.to(domain.Modules)} }
func (p ArtifactsPath) Items() ItemsPath { return ItemsPath{p.to(domain.Items)} }

// DependenciesPath reaches the dependencies domain
type DependenciesPath struct{ domainPath }

// Dependencies starts a path at the dependencies domain
func Dependencies() DependenciesPath { return DependenciesPath{root(domain.Dependencies)} }

func (p DependenciesPath) Name() StringField { return StringField{p.field("name")} }
func (p DependenciesPath) Scope() StringField { return StringField{p.field("scope")} }
func (p DependenciesPath) Type() StringField { return StringField{p.field("type")} }
func (p DependenciesPath) Sha1() StringField { return StringField{p.field("sha1")} }
func (p DependenciesPath) Md5() StringField { return StringField{p.field("md5")} }

func (p DependenciesPath) Modules() ModulesPath { return ModulesPath{p.to(domain.Modules)} }
func (p DependenciesPath) Items() ItemsPath { return ItemsPath{p.to(domain.Items)} }

// ModulesPath reaches the modules domain
type ModulesPath struct{ domainPath }

// Modules starts a path at the modules domain
func Modules() ModulesPath { return ModulesPath{root(domain.Modules)} }

func (p ModulesPath) Name() StringField { return StringField{p.field("name")} }

func (p ModulesPath) Builds() BuildsPath { return BuildsPath{p.to(domain.Builds)} }
func (p ModulesPath) Artifacts() ArtifactsPath { return ArtifactsPath{p.to(domain.Artifacts)} }
func (p ModulesPath) Dependencies() DependenciesPath { return DependenciesPath{p.to(domain.Dependencies)} }

// BuildsPath reaches the builds domain
type BuildsPath struct{ domainPath }

// Builds starts a path at the builds domain
func Builds() BuildsPath { return BuildsPath{root(domain.Builds)} }

func (p BuildsPath) Name() StringField { return StringField{p.field("name")} }
func (p BuildsPath) Number() StringField { return StringField{p.field("number")} }
func (p BuildsPath) URL() StringField { return StringField{p.field("url")} }
func (p BuildsPath) StartDate() DateField { return DateField{p.field("startDate")} }
func (p BuildsPath) Created() DateField { return DateField{p.field("created")} }
func (p BuildsPath) CreatedBy() StringField { return StringField{p.field("createdBy")} }
func (p BuildsPath) Modified() DateField { return DateField{p.field("modified")} }
func (p BuildsPath) ModifiedBy() StringField { return StringField{p.field("modifiedBy")} }

func (p BuildsPath) Modules() ModulesPath { return ModulesPath{p.to(domain.Modules)} }
func (p BuildsPath) BuildProperties() BuildPropertiesPath { return BuildPropertiesPath{p.to(domain.BuildProperties)} }

// BuildPropertiesPath reaches the buildProperties domain
type BuildPropertiesPath struct{ domainPath }

// BuildProperties starts a path at the buildProperties domain
func BuildProperties() BuildPropertiesPath { return BuildPropertiesPath{root(domain.BuildProperties)} }

func (p BuildPropertiesPath) Key() StringField { return StringField{p.field("key")} }
func (p BuildPropertiesPath) Value() StringField { return StringField{p.field("value")} }

func (p BuildPropertiesPath) Builds() BuildsPath { return BuildsPath{p.to(domain.Builds)} }
