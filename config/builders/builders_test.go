package builders

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fiyolabs/feedkit/config"
	"github.com/fiyolabs/feedkit/pipeline"
	"github.com/fiyolabs/feedkit/rerank"
)

const pipelineYAML = `
pipeline:
  name: feed_postprocess
  nodes:
    - type: filter
      config:
        filters:
          - type: hidden
          - type: rule
            expr: 'candidate.score > 0.0'
    - type: rerank.author_diversity
      config:
        max_per_author: 2
    - type: rerank.topn
      config:
        n: 20
`

func TestBuildPipelineFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pipeline.yaml")
	require.NoError(t, os.WriteFile(path, []byte(pipelineYAML), 0o644))

	cfg, err := pipeline.LoadFromYAML(path)
	require.NoError(t, err)
	require.NoError(t, config.ValidatePipelineConfig(cfg))

	pipe, err := cfg.BuildPipeline(config.DefaultFactory())
	require.NoError(t, err)
	require.Len(t, pipe.Nodes, 3)

	diversity, ok := pipe.Nodes[1].(*rerank.AuthorDiversity)
	require.True(t, ok)
	assert.Equal(t, 2, diversity.MaxPerAuthor)

	topn, ok := pipe.Nodes[2].(*rerank.TopNNode)
	require.True(t, ok)
	assert.Equal(t, 20, topn.N)
}

func TestValidateRejectsUnknownNodeType(t *testing.T) {
	cfg := &pipeline.Config{}
	cfg.Pipeline.Nodes = []pipeline.NodeConfig{{Type: "rank.nonexistent"}}

	err := config.ValidatePipelineConfig(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rank.nonexistent")
}

func TestBuildTopNNodeRejectsNonPositiveN(t *testing.T) {
	_, err := BuildTopNNode(map[string]interface{}{"n": 0})
	assert.Error(t, err)
}

func TestBuildFilterNodeRejectsUnknownFilterType(t *testing.T) {
	_, err := BuildFilterNode(map[string]interface{}{
		"filters": []interface{}{
			map[string]interface{}{"type": "geo"},
		},
	})
	assert.Error(t, err)
}
