package pack

import (
	"testing"

	"github.com/matryer/is"
)

func TestIncludes(t *testing.T) {
	is := is.New(t)
	is.True(Includes([]int{1, 2, 2, 5}, []int{2, 5}))
	is.True(Includes([]int{1, 2, 2, 5}, []int{2, 2}))
	is.True(Includes([]int{1, 2}, []int{}))
	is.True(!Includes([]int{1, 2, 5}, []int{2, 2}))
	is.True(!Includes([]int{1, 2, 5}, []int{6}))
	is.True(!Includes([]int{}, []int{1}))
}
