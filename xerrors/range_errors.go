package xerrors

var (
	// ErrEmptyData 输入序列为空。
	ErrEmptyData = New(ErrInvalidArg, 400101, "empty data", "input sequence must not be empty", nil)
	// ErrInvalidSize 结构容量非法。
	ErrInvalidSize = New(ErrInvalidArg, 400102, "invalid size", "size must be positive", nil)
	// ErrRangeInverted 区间左端点大于右端点。
	ErrRangeInverted = New(ErrInvalidArg, 400103, "range inverted", "left endpoint must not exceed right endpoint", nil)
	// ErrEmptyRange 查询区间为空，而该结构的运算没有单位元可返回。
	ErrEmptyRange = New(ErrInvalidArg, 400110, "empty range", "query range must be non-empty", nil)
	// ErrRangeOutOfBounds 区间越出结构的索引域。
	ErrRangeOutOfBounds = New(ErrInvalidArg, 400104, "range out of bounds", "range must lie inside the structure's index domain", nil)
	// ErrIndexOutOfBounds 单点索引越界。
	ErrIndexOutOfBounds = New(ErrInvalidArg, 400105, "index out of bounds", "index must lie inside [0, n)", nil)
	// ErrDomainInverted 稀疏树的定义域起点大于终点。
	ErrDomainInverted = New(ErrInvalidArg, 400106, "domain inverted", "domain start must not exceed domain end", nil)
	// ErrDomainTooWide 定义域宽度超出 int64 可表示范围。
	ErrDomainTooWide = New(ErrInvalidArg, 400107, "domain too wide", "end-start must fit in int64", nil)
	// ErrNotInTree 节点不属于该树。
	ErrNotInTree = New(ErrInvalidArg, 400108, "node not in tree", "node id must belong to the decomposed tree", nil)
	// ErrNotConnected 树的邻接表不连通。
	ErrNotConnected = New(ErrInvalidArg, 400109, "tree not connected", "adjacency list must describe one connected tree", nil)
)
