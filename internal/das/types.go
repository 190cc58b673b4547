package das

// DAS（Digital Asset Standard）读接口的返回结构，字段与 JSON-RPC 响应一一对应。

// Asset 一个（压缩）数字资产
type Asset struct {
	Interface   string            `json:"interface"`
	ID          string            `json:"id"`
	Content     *AssetContent     `json:"content,omitempty"`
	Compression *AssetCompression `json:"compression,omitempty"`
	Grouping    []AssetGrouping   `json:"grouping,omitempty"`
	Royalty     *AssetRoyalty     `json:"royalty,omitempty"`
	Creators    []AssetCreator    `json:"creators,omitempty"`
	Ownership   AssetOwnership    `json:"ownership"`
	Mutable     bool              `json:"mutable"`
	Burnt       bool              `json:"burnt"`
}

// Collection 返回资产所属的 collection 地址，没有则为空串
func (a *Asset) Collection() string {
	for _, g := range a.Grouping {
		if g.GroupKey == "collection" {
			return g.GroupValue
		}
	}
	return ""
}

type AssetContent struct {
	JsonURI  string        `json:"json_uri"`
	Files    []AssetFile   `json:"files,omitempty"`
	Metadata AssetMetadata `json:"metadata"`
}

type AssetFile struct {
	URI  string `json:"uri"`
	Mime string `json:"mime"`
}

type AssetMetadata struct {
	Name        string      `json:"name"`
	Symbol      string      `json:"symbol"`
	Description string      `json:"description,omitempty"`
	Attributes  []Attribute `json:"attributes,omitempty"`
}

type Attribute struct {
	TraitType string      `json:"trait_type"`
	Value     interface{} `json:"value"`
}

// AssetCompression 压缩状态；更新指令需要其中的 hash / 树位置信息
type AssetCompression struct {
	Eligible    bool   `json:"eligible"`
	Compressed  bool   `json:"compressed"`
	DataHash    string `json:"data_hash"`
	CreatorHash string `json:"creator_hash"`
	AssetHash   string `json:"asset_hash"`
	Tree        string `json:"tree"`
	Seq         int64  `json:"seq"`
	LeafID      int64  `json:"leaf_id"`
}

type AssetGrouping struct {
	GroupKey   string `json:"group_key"`
	GroupValue string `json:"group_value"`
}

type AssetRoyalty struct {
	RoyaltyModel        string  `json:"royalty_model"`
	Percent             float64 `json:"percent"`
	BasisPoints         uint16  `json:"basis_points"`
	PrimarySaleHappened bool    `json:"primary_sale_happened"`
	Locked              bool    `json:"locked"`
}

type AssetCreator struct {
	Address  string `json:"address"`
	Share    uint8  `json:"share"`
	Verified bool   `json:"verified"`
}

type AssetOwnership struct {
	Owner     string `json:"owner"`
	Delegate  string `json:"delegate,omitempty"`
	Delegated bool   `json:"delegated"`
	Frozen    bool   `json:"frozen"`
}

// AssetProof merkle 证明，更新指令把 proof 作为附加账户传入
type AssetProof struct {
	Root      string   `json:"root"`
	Proof     []string `json:"proof"`
	NodeIndex int64    `json:"node_index"`
	Leaf      string   `json:"leaf"`
	TreeID    string   `json:"tree_id"`
}

// AssetWithProof getAsset + getAssetProof 的聚合结果
type AssetWithProof struct {
	Asset Asset      `json:"asset"`
	Proof AssetProof `json:"proof"`
}

// assetPage 分页响应外壳
type assetPage struct {
	Total int     `json:"total"`
	Limit int     `json:"limit"`
	Page  int     `json:"page"`
	Items []Asset `json:"items"`
}

// AssetSignature 资产签名历史条目：[signature, instruction]
type AssetSignature []string

type signaturePage struct {
	Total int              `json:"total"`
	Limit int              `json:"limit"`
	Page  int              `json:"page"`
	Items []AssetSignature `json:"items"`
}
