// Package dataset 读取分片 CSV 数据：用户交互分片（treino_parteN.csv）与文章分片（itens-parteN.csv）。
//
// 第一个分片的表头定义列；其余分片丢弃首行，按第一个分片的表头读取。
// 所有单元格去除首尾空白。
package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/rushteam/mabnews/core"
)

const (
	ColUserID  = "userId"
	ColHistory = "history"
	ColClicks  = "numberOfClicksHistory"
	ColPage    = "page"
	ColTitle   = "title"

	// ListSep 是 history / numberOfClicksHistory 单元格内的分隔符。
	ListSep = ", "
)

// Table 是若干分片拼接后的表格。
type Table struct {
	Header []string
	Rows   [][]string

	cols map[string]int
}

// ShardNames 生成 prefix+sep+i+".csv" 形式的分片文件名，i 取 [from, to]。
//
//	ShardNames("treino", "_parte", 1, 5) → treino_parte1.csv ... treino_parte5.csv
func ShardNames(prefix, sep string, from, to int) []string {
	if to < from {
		return nil
	}
	out := make([]string, 0, to-from+1)
	for i := from; i <= to; i++ {
		out = append(out, fmt.Sprintf("%s%s%d.csv", prefix, sep, i))
	}
	return out
}

// LoadShards 并发读取 dir 下的分片并按 names 顺序拼接。
// 任一文件不存在时在读取前返回 NOT_FOUND。
func LoadShards(ctx context.Context, dir string, names []string) (*Table, error) {
	if len(names) == 0 {
		return nil, core.NewDomainError(core.ModuleDataset, core.ErrorCodeInvalidArgument, "dataset: no shard names given")
	}

	paths := make([]string, len(names))
	for i, name := range names {
		paths[i] = filepath.Join(dir, name)
		if _, err := os.Stat(paths[i]); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil, core.Errorf(core.ModuleDataset, core.ErrorCodeNotFound, "dataset: file not found: %s", paths[i])
			}
			return nil, fmt.Errorf("stat %s: %w", paths[i], err)
		}
	}

	shards := make([][][]string, len(paths))
	eg, egCtx := errgroup.WithContext(ctx)
	for i, p := range paths {
		eg.Go(func() error {
			rows, err := readCSV(egCtx, p)
			if err != nil {
				return fmt.Errorf("read %s: %w", p, err)
			}
			shards[i] = rows
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	if len(shards[0]) == 0 {
		return nil, core.Errorf(core.ModuleDataset, core.ErrorCodeInvalidInput, "dataset: first shard %s has no header", paths[0])
	}
	t := &Table{Header: shards[0][0]}
	for _, rows := range shards {
		if len(rows) > 0 {
			t.Rows = append(t.Rows, rows[1:]...)
		}
	}
	t.index()
	return t, nil
}

func readCSV(ctx context.Context, path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	var rows [][]string
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		for j := range rec {
			rec[j] = strings.TrimSpace(rec[j])
		}
		rows = append(rows, rec)
	}
	return rows, nil
}

func (t *Table) index() {
	t.cols = make(map[string]int, len(t.Header))
	for i, h := range t.Header {
		if _, dup := t.cols[h]; !dup {
			t.cols[h] = i
		}
	}
}

// Len 返回数据行数。
func (t *Table) Len() int { return len(t.Rows) }

// Column 返回列在表头中的位置。
func (t *Table) Column(name string) (int, bool) {
	if t.cols == nil {
		t.index()
	}
	i, ok := t.cols[name]
	return i, ok
}

// Cell 返回第 row 行 col 列的值，行长度不足时返回空串。
func (t *Table) Cell(row int, col string) string {
	i, ok := t.Column(col)
	if !ok || row < 0 || row >= len(t.Rows) || i >= len(t.Rows[row]) {
		return ""
	}
	return t.Rows[row][i]
}

func (t *Table) require(cols ...string) error {
	for _, c := range cols {
		if _, ok := t.Column(c); !ok {
			return core.Errorf(core.ModuleDataset, core.ErrorCodeInvalidInput, "dataset: missing column %q", c)
		}
	}
	return nil
}

// Interactions 把交互表转换为训练记录。history 或点击为空的行被丢弃。
func (t *Table) Interactions() ([]core.InteractionRecord, error) {
	if err := t.require(ColUserID, ColHistory, ColClicks); err != nil {
		return nil, err
	}
	out := make([]core.InteractionRecord, 0, len(t.Rows))
	for i := range t.Rows {
		history := t.Cell(i, ColHistory)
		clicks := t.Cell(i, ColClicks)
		if history == "" || clicks == "" {
			continue
		}
		out = append(out, core.InteractionRecord{
			UserID:  t.Cell(i, ColUserID),
			History: SplitList(history),
			Clicks:  SplitList(clicks),
		})
	}
	return out, nil
}

// Titles 返回 idCol → titleCol 的映射，重复 ID 保留第一次出现的标题。
func (t *Table) Titles(idCol, titleCol string) (map[string]string, error) {
	if err := t.require(idCol, titleCol); err != nil {
		return nil, err
	}
	out := make(map[string]string, len(t.Rows))
	for i := range t.Rows {
		id := t.Cell(i, idCol)
		if id == "" {
			continue
		}
		if _, ok := out[id]; !ok {
			out[id] = t.Cell(i, titleCol)
		}
	}
	return out, nil
}

// SplitList 按 ", " 切分单元格并去除每项首尾空白。
func SplitList(cell string) []string {
	parts := strings.Split(cell, ListSep)
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// FindUser 返回用户第一条记录，用户不存在时返回 NOT_FOUND。
func FindUser(records []core.InteractionRecord, userID string) (core.InteractionRecord, error) {
	for _, r := range records {
		if r.UserID == userID {
			return r, nil
		}
	}
	return core.InteractionRecord{}, core.Errorf(core.ModuleDataset, core.ErrorCodeNotFound, "dataset: user %s not found", userID)
}
