package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"gestionale-magazzino/internal/models"
)

// AllegatoRepository definisce le operazioni sui metadati degli allegati.
// La rimozione dei file dal disco è responsabilità del service: qui solo righe.
type AllegatoRepository interface {
	GetByID(ctx context.Context, id int) (*models.Allegato, error)
	Create(ctx context.Context, allegato *models.Allegato) error
	Delete(ctx context.Context, id int) error
	ListByArticolo(ctx context.Context, articoloID int) ([]*models.Allegato, error)
	ListByArticoli(ctx context.Context, articoloIDs []int) (map[int][]*models.Allegato, error)
}

type allegatoRepository struct {
	db    *sql.DB
	stmts map[string]*sql.Stmt
}

func NewAllegatoRepository(db *sql.DB) (AllegatoRepository, error) {
	repo := &allegatoRepository{
		db:    db,
		stmts: make(map[string]*sql.Stmt),
	}

	statements := map[string]string{
		"get_allegato": `
			SELECT id, filename, tipo, articolo_id FROM allegati WHERE id = $1
		`,
		"insert_allegato": `
			INSERT INTO allegati (filename, tipo, articolo_id)
			VALUES ($1, $2, $3)
			RETURNING id
		`,
		"delete_allegato": `DELETE FROM allegati WHERE id = $1`,
		"list_by_articolo": `
			SELECT id, filename, tipo, articolo_id FROM allegati
			WHERE articolo_id = $1 ORDER BY id
		`,
		"list_by_articoli": `
			SELECT id, filename, tipo, articolo_id FROM allegati
			WHERE articolo_id = ANY($1) ORDER BY id
		`,
	}

	for name, query := range statements {
		stmt, err := repo.db.Prepare(query)
		if err != nil {
			return nil, fmt.Errorf("failed to prepare %s: %w", name, err)
		}
		repo.stmts[name] = stmt
	}

	return repo, nil
}

// GetByID ritorna l'allegato con l'id dato, nil se non esiste
func (r *allegatoRepository) GetByID(ctx context.Context, id int) (*models.Allegato, error) {
	var a models.Allegato
	err := r.stmts["get_allegato"].QueryRowContext(ctx, id).Scan(
		&a.ID, &a.Filename, &a.Tipo, &a.ArticoloID,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get allegato: %w", err)
	}
	return &a, nil
}

// Create inserisce i metadati di un nuovo allegato
func (r *allegatoRepository) Create(ctx context.Context, allegato *models.Allegato) error {
	err := r.stmts["insert_allegato"].QueryRowContext(ctx,
		allegato.Filename, allegato.Tipo, allegato.ArticoloID,
	).Scan(&allegato.ID)
	if err != nil {
		return fmt.Errorf("failed to create allegato: %w", err)
	}
	return nil
}

// Delete elimina i metadati dell'allegato. Non tocca gli altri allegati
// dell'articolo.
func (r *allegatoRepository) Delete(ctx context.Context, id int) error {
	if _, err := r.stmts["delete_allegato"].ExecContext(ctx, id); err != nil {
		return fmt.Errorf("failed to delete allegato: %w", err)
	}
	return nil
}

// ListByArticolo ritorna gli allegati di un articolo
func (r *allegatoRepository) ListByArticolo(ctx context.Context, articoloID int) ([]*models.Allegato, error) {
	rows, err := r.stmts["list_by_articolo"].QueryContext(ctx, articoloID)
	if err != nil {
		return nil, fmt.Errorf("failed to list allegati: %w", err)
	}
	defer rows.Close()
	return scanAllegati(rows)
}

// ListByArticoli ritorna gli allegati di più articoli raggruppati per articolo
// (usata dall'esportazione Excel).
func (r *allegatoRepository) ListByArticoli(ctx context.Context, articoloIDs []int) (map[int][]*models.Allegato, error) {
	rows, err := r.stmts["list_by_articoli"].QueryContext(ctx, pq.Array(articoloIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to list allegati: %w", err)
	}
	defer rows.Close()

	allegati, err := scanAllegati(rows)
	if err != nil {
		return nil, err
	}

	byArticolo := make(map[int][]*models.Allegato)
	for _, a := range allegati {
		byArticolo[a.ArticoloID] = append(byArticolo[a.ArticoloID], a)
	}
	return byArticolo, nil
}

func scanAllegati(rows *sql.Rows) ([]*models.Allegato, error) {
	var allegati []*models.Allegato
	for rows.Next() {
		var a models.Allegato
		if err := rows.Scan(&a.ID, &a.Filename, &a.Tipo, &a.ArticoloID); err != nil {
			return nil, fmt.Errorf("failed to scan allegato: %w", err)
		}
		allegati = append(allegati, &a)
	}
	return allegati, rows.Err()
}
