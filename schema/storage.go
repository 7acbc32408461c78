package schema

import (
	"github.com/viant/microjson"
)

// storage holds values of one attribute or array, only the slice matching its type is allocated
type storage struct {
	aType   microjson.Type
	width   int
	ints    []int
	uints   []uint
	shorts  []int16
	ushorts []uint16
	reals   []float64
	bools   []bool
	bytes   []byte
	strings [][]byte
	buffer  []byte
}

func newStorage(aType microjson.Type, size, width int) *storage {
	ret := &storage{aType: aType, width: width}
	switch aType {
	case microjson.TypeInteger:
		ret.ints = make([]int, size)
	case microjson.TypeUInteger:
		ret.uints = make([]uint, size)
	case microjson.TypeShort:
		ret.shorts = make([]int16, size)
	case microjson.TypeUShort:
		ret.ushorts = make([]uint16, size)
	case microjson.TypeReal, microjson.TypeTime:
		ret.reals = make([]float64, size)
	case microjson.TypeBoolean:
		ret.bools = make([]bool, size)
	case microjson.TypeCharacter, microjson.TypeString:
		ret.bytes = make([]byte, size*width)
	}
	return ret
}

func (s *storage) slot() microjson.Slot {
	switch s.aType {
	case microjson.TypeInteger:
		return microjson.Slice(s.ints)
	case microjson.TypeUInteger:
		return microjson.Slice(s.uints)
	case microjson.TypeShort:
		return microjson.Slice(s.shorts)
	case microjson.TypeUShort:
		return microjson.Slice(s.ushorts)
	case microjson.TypeReal, microjson.TypeTime:
		return microjson.Slice(s.reals)
	case microjson.TypeBoolean:
		return microjson.Slice(s.bools)
	case microjson.TypeCharacter, microjson.TypeString:
		return microjson.Slice(s.bytes)
	}
	return microjson.Slot{}
}
