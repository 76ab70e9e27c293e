package source

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/unicornviz/unicornviz/pkg/record"
)

// Default locations for the corpus store.
const (
	DefaultMongoURI   = "mongodb://localhost:27017"
	DefaultCorpusDB   = "unicornviz"
	DefaultCorpusColl = "companies"
)

// corpusDoc is the stored shape of one company row.
type corpusDoc struct {
	Name        string  `bson:"name"`
	Valuation   float64 `bson:"valuation"`
	ImpactScore float64 `bson:"impact_score"`
	GrowthRate  float64 `bson:"growth_rate"`
	Sector      string  `bson:"sector,omitempty"`
	Country     string  `bson:"country,omitempty"`
	FoundedYear int     `bson:"founded_year,omitempty"`
	Status      string  `bson:"status,omitempty"`
	Longitude   float64 `bson:"longitude,omitempty"`
	Latitude    float64 `bson:"latitude,omitempty"`
}

// Corpus reads company rows from a MongoDB collection. It is the
// durable source: rows survive restarts, unlike the live feeds.
type Corpus struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewCorpus connects to the corpus store and verifies the connection.
// Empty uri, db, or coll fall back to the defaults.
func NewCorpus(ctx context.Context, uri, db, coll string) (*Corpus, error) {
	if uri == "" {
		uri = DefaultMongoURI
	}
	if db == "" {
		db = DefaultCorpusDB
	}
	if coll == "" {
		coll = DefaultCorpusColl
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connecting to corpus store: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("pinging corpus store: %w", err)
	}
	return &Corpus{client: client, coll: client.Database(db).Collection(coll)}, nil
}

// Name implements Source.
func (c *Corpus) Name() string { return NameCorpus }

// Fetch returns up to limit rows from the collection.
func (c *Corpus) Fetch(ctx context.Context, limit int) ([]record.Raw, error) {
	opts := options.Find()
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cur, err := c.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("querying corpus: %w", err)
	}
	defer cur.Close(ctx)

	var docs []corpusDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("reading corpus rows: %w", err)
	}

	raws := make([]record.Raw, len(docs))
	for i, d := range docs {
		raws[i] = record.Raw{
			record.FieldName:        d.Name,
			record.FieldValuation:   d.Valuation,
			record.FieldImpactScore: d.ImpactScore,
			record.FieldGrowthRate:  d.GrowthRate,
			record.FieldSector:      d.Sector,
			record.FieldCountry:     d.Country,
			record.FieldFoundedYear: d.FoundedYear,
			record.FieldStatus:      d.Status,
			record.FieldLongitude:   d.Longitude,
			record.FieldLatitude:    d.Latitude,
		}
	}
	return raws, nil
}

// Save appends rows to the collection.
func (c *Corpus) Save(ctx context.Context, rows []record.Raw) error {
	if len(rows) == 0 {
		return nil
	}
	docs := make([]any, 0, len(rows))
	for _, raw := range rows {
		ds := record.Normalize([]record.Raw{raw})
		if len(ds) == 0 {
			continue
		}
		r := ds[0]
		docs = append(docs, corpusDoc{
			Name:        r.Name,
			Valuation:   r.Valuation,
			ImpactScore: r.ImpactScore,
			GrowthRate:  r.GrowthRate,
			Sector:      r.Sector,
			Country:     r.Country,
			FoundedYear: r.FoundedYear,
			Status:      string(r.Status),
			Longitude:   r.Longitude,
			Latitude:    r.Latitude,
		})
	}
	if len(docs) == 0 {
		return nil
	}
	if _, err := c.coll.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("saving corpus rows: %w", err)
	}
	return nil
}

// Seed inserts the built-in fallback corpus when the collection is
// empty, so a fresh deployment has rows to serve immediately.
func (c *Corpus) Seed(ctx context.Context) error {
	n, err := c.coll.CountDocuments(ctx, bson.D{})
	if err != nil {
		return fmt.Errorf("counting corpus rows: %w", err)
	}
	if n > 0 {
		return nil
	}
	return c.Save(ctx, fallbackCorpus())
}

// Close disconnects from the store.
func (c *Corpus) Close(ctx context.Context) error {
	return c.client.Disconnect(ctx)
}
