package postprocess

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/mabnews/core"
)

func TestTitleNode(t *testing.T) {
	items := []*core.Item{core.NewItem("a", 0), core.NewItem("b", 1), nil, {ID: "c", Arm: 2}}

	node := &TitleNode{Titles: TitleMap{"a": "Alpha", "c": "Gamma"}}
	out, err := node.Process(context.Background(), nil, items)
	require.NoError(t, err)
	require.Len(t, out, 4)

	assert.Equal(t, "Alpha", out[0].Title())
	assert.Equal(t, DefaultPlaceholder, out[1].Title())
	assert.Equal(t, "Gamma", out[3].Title())
}

func TestTitleNode_Placeholder(t *testing.T) {
	out, err := (&TitleNode{Placeholder: "Título não encontrado"}).Process(context.Background(), nil,
		[]*core.Item{core.NewItem("a", 0)})
	require.NoError(t, err)
	assert.Equal(t, "Título não encontrado", out[0].Meta["title"])
}
