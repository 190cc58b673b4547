package compose

import (
	"context"
	"fmt"
	"testing"

	"cnft-cli/internal/consts"
	"cnft-cli/internal/logic/lut"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 假 token 账户解析器：按 (owner, mint) 返回预置账户
type fakeTokenResolver struct {
	accounts map[string]common.PublicKey
}

func (f *fakeTokenResolver) ResolveTokenAccount(ctx context.Context, owner, mint common.PublicKey) (common.PublicKey, error) {
	key := owner.ToBase58() + "/" + mint.ToBase58()
	if acc, ok := f.accounts[key]; ok {
		return acc, nil
	}
	return common.PublicKey{}, fmt.Errorf("%w: owner=%s", ErrMissingTokenAccount, owner.ToBase58())
}

// 假表解析器
type fakeTableResolver struct {
	tables map[common.PublicKey]*lut.Table
}

func (f *fakeTableResolver) ResolveTable(ctx context.Context, table common.PublicKey) (*lut.Table, error) {
	if t, ok := f.tables[table]; ok {
		return t, nil
	}
	return nil, fmt.Errorf("%w: %s", lut.ErrTableNotFound, table.ToBase58())
}

func testKey(seed byte) common.PublicKey {
	var pk common.PublicKey
	for i := range pk {
		pk[i] = seed
	}
	return pk
}

func testMintParams() MintParams {
	return MintParams{
		LeafOwner:           testKey(1),
		Payer:               testKey(2),
		MerkleTree:          testKey(3),
		CollectionMint:      testKey(4),
		CollectionAuthority: testKey(5),
		Metadata:            NewMetadataArgs("Test NFT", "TST", "https://example.com/1.json", 500, testKey(4), nil),
	}
}

func testPayment(from, to common.PublicKey) *Payment {
	return &Payment{
		From:     from,
		To:       to,
		Mint:     testKey(9),
		Amount:   1_500_000,
		Decimals: 6,
	}
}

// 仅铸造：一条指令，目标是 Bubblegum 程序
func TestCompose_MintOnly(t *testing.T) {
	c := NewComposer(&fakeTokenResolver{}, &fakeTableResolver{})

	comp, err := c.Compose(context.Background(), testMintParams(), nil, nil)
	require.NoError(t, err)
	require.Len(t, comp.Instructions, 1)
	assert.Equal(t, consts.BubblegumProgram, comp.Instructions[0].ProgramID)
	assert.Empty(t, comp.Tables)
	assert.Equal(t, testKey(2), comp.FeePayer)
}

// 带付款时铸造指令必须在转账指令之前
func TestCompose_MintPrecedesTransfer(t *testing.T) {
	payment := testPayment(testKey(2), testKey(5))
	resolver := &fakeTokenResolver{accounts: map[string]common.PublicKey{
		payment.From.ToBase58() + "/" + payment.Mint.ToBase58(): testKey(10),
		payment.To.ToBase58() + "/" + payment.Mint.ToBase58():   testKey(11),
	}}
	c := NewComposer(resolver, &fakeTableResolver{})

	comp, err := c.Compose(context.Background(), testMintParams(), payment, nil)
	require.NoError(t, err)
	require.Len(t, comp.Instructions, 2)
	assert.Equal(t, consts.BubblegumProgram, comp.Instructions[0].ProgramID, "铸造指令恒在首位")
	assert.Equal(t, consts.TokenProgram, comp.Instructions[1].ProgramID, "转账指令紧随其后")
}

// 付款方没有 token 账户时返回 ErrMissingTokenAccount
func TestCompose_MissingTokenAccount(t *testing.T) {
	c := NewComposer(&fakeTokenResolver{}, &fakeTableResolver{})

	_, err := c.Compose(context.Background(), testMintParams(), testPayment(testKey(2), testKey(5)), nil)
	assert.ErrorIs(t, err, ErrMissingTokenAccount)
}

// 表解析失败必须让整个组合失败，不能静默降级
func TestCompose_TableNotFoundIsFatal(t *testing.T) {
	c := NewComposer(&fakeTokenResolver{}, &fakeTableResolver{})
	missing := testKey(42)

	_, err := c.Compose(context.Background(), testMintParams(), nil, &missing)
	assert.ErrorIs(t, err, lut.ErrTableNotFound)
}

// 表解析成功时附加到组合结果
func TestCompose_AttachesTable(t *testing.T) {
	tableAddr := testKey(42)
	resolver := &fakeTableResolver{tables: map[common.PublicKey]*lut.Table{
		tableAddr: {Key: tableAddr, Addresses: consts.CnftLutAddresses()},
	}}
	c := NewComposer(&fakeTokenResolver{}, resolver)

	comp, err := c.Compose(context.Background(), testMintParams(), nil, &tableAddr)
	require.NoError(t, err)
	require.Len(t, comp.Tables, 1)
	assert.Equal(t, tableAddr, comp.Tables[0].Key)
	assert.Len(t, comp.Tables[0].Addresses, 4)
}

// 体积建议的边界：L + 1 + 64*S 恰好等于上限时为 true，多 1 字节为 false
func TestFitsInOneTransaction_Boundary(t *testing.T) {
	const signers = 2
	limit := consts.PacketDataSize - 1 - 64*signers

	assert.True(t, FitsInOneTransaction(limit, signers))
	assert.False(t, FitsInOneTransaction(limit+1, signers))
	assert.True(t, FitsInOneTransaction(0, 0))
}

// 附加覆盖大量账户的查找表后，估算体积应明显减小
func TestComposition_TableShrinksEstimate(t *testing.T) {
	params := testMintParams()
	c := NewComposer(&fakeTokenResolver{}, &fakeTableResolver{})
	plain, err := c.Compose(context.Background(), params, nil, nil)
	require.NoError(t, err)

	// 表覆盖铸造指令里所有非签名账户
	mintIx := plain.Instructions[0]
	var covered []common.PublicKey
	for _, acc := range mintIx.Accounts {
		if !acc.IsSigner {
			covered = append(covered, acc.PubKey)
		}
	}
	tableAddr := testKey(42)
	resolver := &fakeTableResolver{tables: map[common.PublicKey]*lut.Table{
		tableAddr: {Key: tableAddr, Addresses: covered},
	}}
	withTable, err := NewComposer(&fakeTokenResolver{}, resolver).Compose(context.Background(), params, nil, &tableAddr)
	require.NoError(t, err)

	assert.Less(t, withTable.EstimateSize(), plain.EstimateSize(),
		"查找表应把 32 字节地址压缩为 1 字节索引")
}

// 签名者计数：付款方与费用支付方相同也只算一个
func TestComposition_RequiredSigners(t *testing.T) {
	params := testMintParams()
	payment := testPayment(params.Payer, testKey(5)) // 付款方即费用支付方
	resolver := &fakeTokenResolver{accounts: map[string]common.PublicKey{
		payment.From.ToBase58() + "/" + payment.Mint.ToBase58(): testKey(10),
		payment.To.ToBase58() + "/" + payment.Mint.ToBase58():   testKey(11),
	}}
	comp, err := NewComposer(resolver, &fakeTableResolver{}).Compose(context.Background(), params, payment, nil)
	require.NoError(t, err)

	// payer(=付款方) + collection 权限方
	assert.Equal(t, 2, comp.RequiredSigners())
}

// 铸造指令的账户形状：16 个账户，payer 与权限方是签名者，树是可写账户
func TestMintToCollectionV1_Accounts(t *testing.T) {
	params := testMintParams()
	treeAuthority, err := TreeAuthority(params.MerkleTree)
	require.NoError(t, err)

	ix, err := MintToCollectionV1(MintToCollectionV1Param{
		TreeAuthority:       treeAuthority,
		LeafOwner:           params.LeafOwner,
		LeafDelegate:        params.LeafOwner,
		MerkleTree:          params.MerkleTree,
		Payer:               params.Payer,
		TreeDelegate:        params.CollectionAuthority,
		CollectionAuthority: params.CollectionAuthority,
		CollectionMint:      params.CollectionMint,
		Metadata:            params.Metadata,
	})
	require.NoError(t, err)

	require.Len(t, ix.Accounts, 16)
	assert.True(t, ix.Accounts[0].IsWritable, "树权限账户可写")
	assert.True(t, ix.Accounts[3].IsWritable, "merkle 树账户可写")
	assert.True(t, ix.Accounts[4].IsSigner, "payer 需要签名")
	assert.True(t, ix.Accounts[5].IsSigner, "树委托方需要签名")
	assert.True(t, ix.Accounts[6].IsSigner, "collection 权限方需要签名")

	// 指令数据 = 8 字节识别码 + borsh 参数
	require.Greater(t, len(ix.Data), 8)
	assert.Equal(t, anchorDiscriminator("mint_to_collection_v1"), ix.Data[:8])
	assert.Contains(t, string(ix.Data), "Test NFT", "元数据名称应出现在 borsh 编码中")
}

// 更新指令把 merkle 证明作为附加账户挂在末尾
func TestUpdateMetadata_ProofAccounts(t *testing.T) {
	params := testMintParams()
	treeAuthority, err := TreeAuthority(params.MerkleTree)
	require.NoError(t, err)

	proof := []common.PublicKey{testKey(20), testKey(21), testKey(22)}
	name := "Renamed"
	ix, err := UpdateMetadata(UpdateMetadataParam{
		TreeAuthority:   treeAuthority,
		Authority:       params.CollectionAuthority,
		CollectionMint:  params.CollectionMint,
		LeafOwner:       params.LeafOwner,
		LeafDelegate:    params.LeafOwner,
		Payer:           params.CollectionAuthority,
		MerkleTree:      params.MerkleTree,
		Nonce:           7,
		Index:           7,
		CurrentMetadata: params.Metadata,
		Update:          UpdateArgs{Name: &name},
		Proof:           proof,
	})
	require.NoError(t, err)

	require.Len(t, ix.Accounts, 13+len(proof))
	for i, node := range proof {
		acc := ix.Accounts[13+i]
		assert.Equal(t, node, acc.PubKey)
		assert.False(t, acc.IsSigner)
		assert.False(t, acc.IsWritable)
	}
	assert.Equal(t, anchorDiscriminator("update_metadata"), ix.Data[:8])
}

// 识别码是 sha256("global:<name>") 的前 8 字节，且各指令互不相同
func TestAnchorDiscriminator(t *testing.T) {
	assert.Len(t, anchorDiscriminator("mint_to_collection_v1"), 8)
	assert.NotEqual(t,
		anchorDiscriminator("mint_to_collection_v1"),
		anchorDiscriminator("update_metadata"))
	assert.Equal(t,
		anchorDiscriminator("create_tree"),
		anchorDiscriminator("create_tree"))
}
