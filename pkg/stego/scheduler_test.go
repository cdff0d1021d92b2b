package stego

import (
	"reflect"
	"sort"
	"testing"
)

func TestSplitMix64Reference(t *testing.T) {
	r := &splitMix64{state: 0}
	want := []uint64{0xE220A8397B1DCDAF, 0x6E789E6AA1B965F4, 0x06C45D188009454F}
	for i, w := range want {
		if got := r.next(); got != w {
			t.Errorf("draw %d = %#x; want %#x", i, got, w)
		}
	}
}

func TestPermutationGolden(t *testing.T) {
	tests := []struct {
		n    int
		key  uint64
		want []int
	}{
		{10, 42, []int{0, 9, 5, 8, 6, 4, 7, 2, 1, 3}},
		{10, 1234, []int{0, 1, 8, 6, 4, 3, 7, 2, 9, 5}},
		{8, 0, []int{2, 5, 0, 3, 4, 6, 1, 7}},
		{1, 99, []int{0}},
		{0, 99, []int{}},
	}

	for _, tt := range tests {
		if got := Permutation(tt.n, tt.key); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Permutation(%d, %d) = %v; want %v", tt.n, tt.key, got, tt.want)
		}
	}
}

func TestPermutationIsBijection(t *testing.T) {
	for _, n := range []int{2, 17, 1000} {
		for _, key := range []uint64{0, 1, 42, ^uint64(0)} {
			p := Permutation(n, key)
			sorted := append([]int(nil), p...)
			sort.Ints(sorted)
			for i, v := range sorted {
				if v != i {
					t.Fatalf("Permutation(%d, %d) is not a permutation of [0,%d)", n, key, n)
				}
			}
			if !reflect.DeepEqual(p, Permutation(n, key)) {
				t.Fatalf("Permutation(%d, %d) is not deterministic", n, key)
			}
		}
	}

	if reflect.DeepEqual(Permutation(100, 1), Permutation(100, 2)) {
		t.Error("different keys produced the same order")
	}
}

func TestScheduleIndexesEligibleByPermutation(t *testing.T) {
	img, _ := NewImage(4, 4, make([]uint8, 4*4*3))

	for _, order := range []ChannelOrder{RGB, BGR} {
		eligible, err := img.Eligible(nil, order)
		if err != nil {
			t.Fatal(err)
		}
		sched, err := Schedule(img, 42, nil, order)
		if err != nil {
			t.Fatal(err)
		}
		perm := Permutation(len(eligible), 42)
		for i := range sched {
			if sched[i] != eligible[perm[i]] {
				t.Fatalf("%v: sched[%d] = %d; want eligible[perm[%d]] = %d", order, i, sched[i], i, eligible[perm[i]])
			}
		}
	}
}

func TestScheduleGolden(t *testing.T) {
	img, _ := NewImage(4, 4, make([]uint8, 4*4*3))

	tests := []struct {
		order ChannelOrder
		want  []int
	}{
		{RGB, []int{22, 0, 31, 41, 37, 38, 1, 35}},
		{BGR, []int{22, 2, 31, 39, 37, 36, 1, 33}},
	}
	for _, tt := range tests {
		got, err := Schedule(img, 42, nil, tt.order)
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(got[:len(tt.want)], tt.want) {
			t.Errorf("Schedule(%v)[:8] = %v; want %v", tt.order, got[:8], tt.want)
		}
	}
}

func TestEligibleChannelBlocks(t *testing.T) {
	img, _ := NewImage(2, 2, make([]uint8, 2*2*3))

	got, _ := img.Eligible(nil, RGB)
	want := []int{0, 3, 6, 9, 1, 4, 7, 10, 2, 5, 8, 11}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Eligible(RGB) = %v; want %v", got, want)
	}

	got, _ = img.Eligible(Rect{Y0: 1, X0: 1, Height: 1, Width: 1}, BGR)
	want = []int{11, 10, 9}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Eligible(rect, BGR) = %v; want %v", got, want)
	}
}
