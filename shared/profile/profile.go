package profile

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	pkgutil "VoxelMap/shared/pkg/util"
	"VoxelMap/shared/render"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// FrameStat representa o esquema do banco para as estatísticas de um Prepare.
type FrameStat struct {
	ID            uint   `gorm:"primaryKey"`
	Session       string `gorm:"index:idx_session_frame"`
	Seq           uint64 `gorm:"index:idx_session_frame"`
	FrameIndex    int
	Maps          int
	Skipped       int
	Instances     int
	Textures      int
	Dirty         bool
	Rerecord      bool
	PrepareMicros int64
	CreatedAt     time.Time
}

// Summary agrega as estatísticas de uma sessão.
type Summary struct {
	Frames        int64   `json:"frames"`
	AvgInstances  float64 `json:"avg_instances"`
	AvgPrepareUs  float64 `json:"avg_prepare_us"`
	MaxPrepareUs  int64   `json:"max_prepare_us"`
	DirtyFrames   int64   `json:"dirty_frames"`
	SkippedFrames int64   `json:"skipped_frames"`
}

// Recorder guarda as estatísticas de preparação em um SQLite.
// Record é chamado pelo thread de render e nunca bloqueia; Flush grava em lote.
type Recorder struct {
	db      *gorm.DB
	dbMu    sync.Mutex // serializa escritas (impede "database is locked")
	pending *pkgutil.RingBuffer[FrameStat]
	session string
	frame   uint64
}

// Open abre (ou cria) o banco de estatísticas e roda as migrações.
func Open(path string, capacity int) (*Recorder, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("falha ao conectar no SQLite: %w", err)
	}
	if err := db.AutoMigrate(&FrameStat{}); err != nil {
		return nil, fmt.Errorf("falha na migração do banco: %w", err)
	}

	r := &Recorder{
		db:      db,
		pending: pkgutil.NewRingBuffer[FrameStat](capacity),
		session: uuid.NewString(),
	}
	logrus.Infof("[Profile] Banco de estatísticas aberto: %s (sessão %s)", path, r.session)
	return r, nil
}

// Session retorna o identificador da sessão atual.
func (r *Recorder) Session() string { return r.session }

// Record enfileira o resultado de um Prepare. Com a fila cheia o frame é descartado.
func (r *Recorder) Record(index int, res render.PrepareResult) {
	r.frame++
	stat := FrameStat{
		Session:       r.session,
		Seq:           r.frame,
		FrameIndex:    index,
		Maps:          res.Maps,
		Skipped:       res.Skipped,
		Instances:     res.Instances,
		Textures:      res.Textures,
		Dirty:         res.Dirty,
		Rerecord:      res.Rerecord,
		PrepareMicros: res.Elapsed.Microseconds(),
		CreatedAt:     time.Now(),
	}
	_ = r.pending.Enqueue(stat)
}

// Dropped retorna quantos frames foram descartados por fila cheia.
func (r *Recorder) Dropped() uint64 { return r.pending.Dropped() }

// Flush grava no banco tudo que estiver na fila.
func (r *Recorder) Flush() (int, error) {
	var batch []FrameStat
	r.pending.Drain(func(s FrameStat) { batch = append(batch, s) })
	if len(batch) == 0 {
		return 0, nil
	}

	r.dbMu.Lock()
	defer r.dbMu.Unlock()
	if err := r.db.CreateInBatches(batch, 256).Error; err != nil {
		return 0, fmt.Errorf("falha ao gravar %d frames: %w", len(batch), err)
	}
	return len(batch), nil
}

// Run grava periodicamente até o contexto ser cancelado; faz um último Flush ao sair.
func (r *Recorder) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			if _, err := r.Flush(); err != nil {
				logrus.Errorf("[Profile] %v", err)
			}
			return
		case <-ticker.C:
			if _, err := r.Flush(); err != nil {
				logrus.Errorf("[Profile] %v", err)
			}
		}
	}
}

// Recent retorna os últimos frames gravados da sessão, do mais novo para o mais antigo.
func (r *Recorder) Recent(limit int) ([]FrameStat, error) {
	var stats []FrameStat
	err := r.db.Where("session = ?", r.session).Order("seq desc").Limit(limit).Find(&stats).Error
	return stats, err
}

// Summarize agrega as estatísticas gravadas da sessão.
func (r *Recorder) Summarize() (Summary, error) {
	var s Summary
	err := r.db.Model(&FrameStat{}).
		Select("COUNT(*) AS frames, COALESCE(AVG(instances), 0) AS avg_instances, "+
			"COALESCE(AVG(prepare_micros), 0) AS avg_prepare_us, COALESCE(MAX(prepare_micros), 0) AS max_prepare_us, "+
			"COALESCE(SUM(CASE WHEN dirty THEN 1 ELSE 0 END), 0) AS dirty_frames, "+
			"COALESCE(SUM(CASE WHEN skipped > 0 THEN 1 ELSE 0 END), 0) AS skipped_frames").
		Where("session = ?", r.session).
		Scan(&s).Error
	return s, err
}

// Close grava o que restou na fila e fecha o banco.
func (r *Recorder) Close() error {
	if _, err := r.Flush(); err != nil {
		logrus.Errorf("[Profile] %v", err)
	}
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
