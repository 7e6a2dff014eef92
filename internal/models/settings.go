package models

// SettingsID is the fixed identity of the site settings singleton
const SettingsID = "site"

// SiteSettings holds company contact and social fields
type SiteSettings struct {
	Record      `bson:",inline"`
	CompanyName string `json:"companyName" bson:"company_name"`
	Tagline     string `json:"tagline" bson:"tagline"`
	Email       string `json:"email" bson:"email"`
	Phone       string `json:"phone" bson:"phone"`
	Whatsapp    string `json:"whatsapp" bson:"whatsapp"`
	Address     string `json:"address" bson:"address"`
	Facebook    string `json:"facebook" bson:"facebook"`
	Twitter     string `json:"twitter" bson:"twitter"`
	LinkedIn    string `json:"linkedin" gorm:"column:linkedin" bson:"linkedin"`
	Instagram   string `json:"instagram" bson:"instagram"`
}

func (SiteSettings) TableName() string { return "site_settings" }

// SettingsPatch is a partial update; nil fields are left untouched
type SettingsPatch struct {
	CompanyName *string `json:"companyName,omitempty"`
	Tagline     *string `json:"tagline,omitempty"`
	Email       *string `json:"email,omitempty"`
	Phone       *string `json:"phone,omitempty"`
	Whatsapp    *string `json:"whatsapp,omitempty"`
	Address     *string `json:"address,omitempty"`
	Facebook    *string `json:"facebook,omitempty"`
	Twitter     *string `json:"twitter,omitempty"`
	LinkedIn    *string `json:"linkedin,omitempty"`
	Instagram   *string `json:"instagram,omitempty"`
}

// Apply merges the non-nil fields of p into s
func (p SettingsPatch) Apply(s *SiteSettings) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&s.CompanyName, p.CompanyName)
	set(&s.Tagline, p.Tagline)
	set(&s.Email, p.Email)
	set(&s.Phone, p.Phone)
	set(&s.Whatsapp, p.Whatsapp)
	set(&s.Address, p.Address)
	set(&s.Facebook, p.Facebook)
	set(&s.Twitter, p.Twitter)
	set(&s.LinkedIn, p.LinkedIn)
	set(&s.Instagram, p.Instagram)
}
