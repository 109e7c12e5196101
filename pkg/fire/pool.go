package fire

// Kind 粒子类型
type Kind uint8

const (
	KindEmber Kind = iota // 余烬
	KindFlame             // 火焰
)

func (k Kind) String() string {
	if k == KindFlame {
		return "flame"
	}
	return "ember"
}

// NumColors 调色板颜色数，ColorIndex 的取值范围为 [0, NumColors)
const NumColors = 4

// Pool 固定容量的结构数组（SoA）粒子存储
//
// 存活粒子占据下标 [0, Count)，顺序没有意义。
// 所有切片长度均为 Capacity，只在 NewPool 中分配一次，之后从不重新分配。
type Pool struct {
	X, Y       []float64
	VX, VY     []float64
	Size       []float64
	Life       []float64 // 已存活秒数；负数表示仍在等待生成（错峰）
	MaxLife    []float64
	Opacity    []float64
	ColorIndex []uint8
	Kind       []Kind

	Count    int
	Capacity int
}

// NewPool 分配最多容纳 capacity 个粒子的粒子池
// 负数容量按 0 处理。
func NewPool(capacity int) *Pool {
	if capacity < 0 {
		capacity = 0
	}
	return &Pool{
		X:          make([]float64, capacity),
		Y:          make([]float64, capacity),
		VX:         make([]float64, capacity),
		VY:         make([]float64, capacity),
		Size:       make([]float64, capacity),
		Life:       make([]float64, capacity),
		MaxLife:    make([]float64, capacity),
		Opacity:    make([]float64, capacity),
		ColorIndex: make([]uint8, capacity),
		Kind:       make([]Kind, capacity),
		Capacity:   capacity,
	}
}

// Free 返回空闲槽位数
func (p *Pool) Free() int {
	return p.Capacity - p.Count
}

// Remove 以 O(1) 移除槽位 i：把最后一个存活粒子移入 i
//
// 调用方在 Remove 之后不能推进遍历下标，槽位 i 此时已是另一个粒子。
func (p *Pool) Remove(i int) {
	last := p.Count - 1
	if i < 0 || i > last {
		return
	}
	if i != last {
		p.X[i] = p.X[last]
		p.Y[i] = p.Y[last]
		p.VX[i] = p.VX[last]
		p.VY[i] = p.VY[last]
		p.Size[i] = p.Size[last]
		p.Life[i] = p.Life[last]
		p.MaxLife[i] = p.MaxLife[last]
		p.Opacity[i] = p.Opacity[last]
		p.ColorIndex[i] = p.ColorIndex[last]
		p.Kind[i] = p.Kind[last]
	}
	p.Count--
}

// LifeRatio 返回槽位 i 的 Life/MaxLife，等待生成时为 0
func (p *Pool) LifeRatio(i int) float64 {
	if p.Life[i] < 0 || p.MaxLife[i] <= 0 {
		return 0
	}
	return p.Life[i] / p.MaxLife[i]
}
