package uploader

// Attribute 链下元数据的 trait 条目
type Attribute struct {
	TraitType string `json:"trait_type"`
	Value     string `json:"value"`
}

// File properties.files 条目
type File struct {
	URI  string `json:"file"`
	Type string `json:"type"`
}

// CreatorShare properties.creators 条目
type CreatorShare struct {
	Address  string `json:"address"`
	Verified bool   `json:"verified"`
	Share    uint8  `json:"share"`
}

// Properties 链下元数据的 properties 段
type Properties struct {
	Category string         `json:"category"`
	Files    []File         `json:"files"`
	Creators []CreatorShare `json:"creators,omitempty"`
}

// Metadata 标准链下元数据对象，序列化后上传，CID 写进链上 URI
type Metadata struct {
	Name                 string      `json:"name"`
	Symbol               string      `json:"symbol"`
	Description          string      `json:"description"`
	SellerFeeBasisPoints uint16      `json:"seller_fee_basis_points"`
	Image                string      `json:"image"`
	ExternalURL          string      `json:"external_url,omitempty"`
	Attributes           []Attribute `json:"attributes,omitempty"`
	Properties           Properties  `json:"properties"`
}

// NewImageMetadata 以已上传的图片 CID 构造链下元数据对象
func NewImageMetadata(name, symbol, description string, sellerFeeBasisPoints uint16, imageCid, externalURL string, attributes []Attribute) *Metadata {
	uri := URI(imageCid)
	return &Metadata{
		Name:                 name,
		Symbol:               symbol,
		Description:          description,
		SellerFeeBasisPoints: sellerFeeBasisPoints,
		Image:                uri,
		ExternalURL:          externalURL,
		Attributes:           attributes,
		Properties: Properties{
			Category: "image",
			Files:    []File{{URI: uri, Type: "image/png"}},
		},
	}
}
