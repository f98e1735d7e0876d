package container

import "container/heap"

// item 优先队列中单个元素
type item[T any] struct {
	Value    T       // 元素的值
	Priority float64 // 优先级（越小越优先）
	seq      int     // 加入顺序，优先级相同时先加入者优先
	index    int     // 在堆中的下标，由heap.Interface方法维护
}

// priorityQueue 实现heap.Interface的最小堆
type priorityQueue[T any] []*item[T]

func (pq priorityQueue[T]) Len() int { return len(pq) }

// Less 优先级数值小者在前，相同时按加入顺序，保证出队顺序确定
func (pq priorityQueue[T]) Less(i, j int) bool {
	if pq[i].Priority != pq[j].Priority {
		return pq[i].Priority < pq[j].Priority
	}
	return pq[i].seq < pq[j].seq
}

func (pq priorityQueue[T]) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].index = i
	pq[j].index = j
}

func (pq *priorityQueue[T]) Push(x any) {
	item := x.(*item[T])
	item.index = len(*pq)
	*pq = append(*pq, item)
}

func (pq *priorityQueue[T]) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil  // 避免内存泄漏
	item.index = -1 // 为了安全起见
	*pq = old[0 : n-1]
	return item
}

// PriorityQueue 稳定的优先队列
// 功能：按优先级出队，优先级相同的元素按加入顺序出队
// 说明：用于比赛名次计算，进度相同的车辆保持发车顺序
type PriorityQueue[T any] struct {
	queue priorityQueue[T]
	seq   int
}

// NewPriorityQueue 创建优先队列
// 参数：capacity-预分配容量
func NewPriorityQueue[T any](capacity int) *PriorityQueue[T] {
	return &PriorityQueue[T]{queue: make(priorityQueue[T], 0, capacity)}
}

func (q *PriorityQueue[T]) Len() int {
	return len(q.queue)
}

// Push 加入元素但不维护堆结构，批量加入后需调用Heapify
func (q *PriorityQueue[T]) Push(value T, priority float64) {
	q.queue = append(q.queue, &item[T]{
		Value:    value,
		Priority: priority,
		seq:      q.seq,
		index:    len(q.queue),
	})
	q.seq++
}

// Heapify 重新构建堆
func (q *PriorityQueue[T]) Heapify() {
	heap.Init(&q.queue)
}

// HeapPop 弹出优先级数值最小的元素
func (q *PriorityQueue[T]) HeapPop() (value T, priority float64) {
	item := heap.Pop(&q.queue).(*item[T])
	return item.Value, item.Priority
}

// Drain 按出队顺序弹出全部元素
// 返回：元素值列表，队列随后为空
func (q *PriorityQueue[T]) Drain() []T {
	q.Heapify()
	values := make([]T, 0, q.Len())
	for q.Len() > 0 {
		v, _ := q.HeapPop()
		values = append(values, v)
	}
	q.seq = 0
	return values
}
