package model

// Product は健康補助食品の製品レコードを表す。
// バックエンドから取得したまま表示するフラットなレコード。
type Product struct {
	PrdID            int64  `json:"prdId"`
	ProductName      string `json:"productName"`
	CompanyName      string `json:"companyName,omitempty"`
	RegistrationNo   string `json:"registrationNo,omitempty"`
	ExpirationPeriod string `json:"expirationPeriod,omitempty"`
	SrvUse           string `json:"srvUse,omitempty"`
	MainFunction     string `json:"mainFunction,omitempty"`
	Preservation     string `json:"preservation,omitempty"`
	IntakeHint       string `json:"intakeHint,omitempty"`
	BaseStandard     string `json:"baseStandard,omitempty"`
}

// Favorite はお気に入り登録された製品を表す。
type Favorite struct {
	FavoriteID       int64  `json:"favoriteId"`
	PrdID            int64  `json:"prdId"`
	ProductName      string `json:"productName"`
	CompanyName      string `json:"companyName,omitempty"`
	MainFunction     string `json:"mainFunction,omitempty"`
	ExpirationPeriod string `json:"expirationPeriod,omitempty"`
}

// HealthFood は食品医薬品安全処の健康機能食品公開APIのレコードを表す。
// バックエンドの /health-foods 系エンドポイント経由で取得する。
type HealthFood struct {
	ProductName  string `json:"prduct"`
	CompanyName  string `json:"entrps"`
	ReportNo     string `json:"sttemntNo"`
	RegisteredAt string `json:"registDt,omitempty"`
	ShelfLife    string `json:"distbPd,omitempty"`
	Appearance   string `json:"sungsang,omitempty"`
	SrvUse       string `json:"srvUse,omitempty"`
	Preservation string `json:"prsrvPd,omitempty"`
	IntakeHint   string `json:"intakeHint,omitempty"`
	MainFunction string `json:"mainFnctn,omitempty"`
	BaseStandard string `json:"baseStandard,omitempty"`
}

// HealthFoodPage は健康機能食品検索のページング付き結果を表す。
type HealthFoodPage struct {
	Items      []HealthFood `json:"items"`
	PageNo     int          `json:"pageNo"`
	NumOfRows  int          `json:"numOfRows"`
	TotalCount int          `json:"totalCount"`
}
