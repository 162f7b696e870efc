package models

import (
	"github.com/google/uuid"
	"github.com/lumio/backend/internal/domain/funnel"
)

// FunnelModel maps the funnels table
type FunnelModel struct {
	AggregateModel
	SubAccountID  uuid.UUID         `gorm:"type:uuid;not null;index"`
	Name          string            `gorm:"type:varchar(200);not null"`
	Description   string            `gorm:"type:text;not null;default:''"`
	Published     bool              `gorm:"not null;default:false"`
	SubDomainName *string           `gorm:"type:varchar(63);uniqueIndex"`
	Favicon       string            `gorm:"type:text;not null;default:''"`
	LiveProducts  string            `gorm:"type:text;not null;default:'[]'"`
	Pages         []FunnelPageModel `gorm:"foreignKey:FunnelID"`
}

// TableName returns the table name for GORM
func (FunnelModel) TableName() string {
	return "funnels"
}

// ToDomain converts the model to a Funnel with any preloaded pages
func (m *FunnelModel) ToDomain() *funnel.Funnel {
	f := &funnel.Funnel{
		BaseAggregateRoot: m.AggregateModel.ToAggregateRoot(),
		SubAccountID:      m.SubAccountID,
		Name:              m.Name,
		Description:       m.Description,
		Published:         m.Published,
		Favicon:           m.Favicon,
		LiveProducts:      m.LiveProducts,
		Pages:             make([]*funnel.Page, 0, len(m.Pages)),
	}
	if m.SubDomainName != nil {
		f.SubDomainName = *m.SubDomainName
	}
	for i := range m.Pages {
		f.Pages = append(f.Pages, m.Pages[i].ToDomain())
	}
	return f
}

// FunnelModelFromDomain converts a Funnel to its model. Pages are persisted
// through the page repository. An empty sub-domain is stored as NULL so the
// unique index ignores it.
func FunnelModelFromDomain(f *funnel.Funnel) *FunnelModel {
	m := &FunnelModel{
		SubAccountID: f.SubAccountID,
		Name:         f.Name,
		Description:  f.Description,
		Published:    f.Published,
		Favicon:      f.Favicon,
		LiveProducts: f.LiveProducts,
	}
	if f.SubDomainName != "" {
		sd := f.SubDomainName
		m.SubDomainName = &sd
	}
	m.FromDomainAggregateRoot(f.BaseAggregateRoot)
	return m
}

// FunnelPageModel maps the funnel_pages table
type FunnelPageModel struct {
	BaseModel
	FunnelID     uuid.UUID `gorm:"type:uuid;not null;index"`
	Name         string    `gorm:"type:varchar(200);not null"`
	PathName     string    `gorm:"type:varchar(200);not null;default:''"`
	Visits       int       `gorm:"not null;default:0"`
	Content      string    `gorm:"type:text;not null;default:''"`
	Order        int       `gorm:"column:order;not null;default:0"`
	PreviewImage string    `gorm:"type:text;not null;default:''"`
}

// TableName returns the table name for GORM
func (FunnelPageModel) TableName() string {
	return "funnel_pages"
}

// ToDomain converts the model to a Page
func (m *FunnelPageModel) ToDomain() *funnel.Page {
	return &funnel.Page{
		BaseEntity:   m.BaseModel.ToDomain(),
		FunnelID:     m.FunnelID,
		Name:         m.Name,
		PathName:     m.PathName,
		Visits:       m.Visits,
		Content:      m.Content,
		Order:        m.Order,
		PreviewImage: m.PreviewImage,
	}
}

// FunnelPageModelFromDomain converts a Page to its model
func FunnelPageModelFromDomain(p *funnel.Page) *FunnelPageModel {
	m := &FunnelPageModel{
		FunnelID:     p.FunnelID,
		Name:         p.Name,
		PathName:     p.PathName,
		Visits:       p.Visits,
		Content:      p.Content,
		Order:        p.Order,
		PreviewImage: p.PreviewImage,
	}
	m.FromDomainBaseEntity(p.BaseEntity)
	return m
}

// All lists every model, in dependency order, for AutoMigrate in
// development and tests
func All() []any {
	return []any{
		&AgencyModel{},
		&SubAccountModel{},
		&UserModel{},
		&PermissionModel{},
		&InvitationModel{},
		&NotificationModel{},
		&FunnelModel{},
		&FunnelPageModel{},
	}
}
