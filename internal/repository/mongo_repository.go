package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/yeo0314/JEPK-creation/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const ordersCollection = "orders"

type orderDocument struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	OrderID         string             `bson:"order_id"`
	Amount          int64              `bson:"amount"`
	CustomerName    string             `bson:"customer_name"`
	CustomerEmail   string             `bson:"customer_email"`
	Phone           string             `bson:"phone"`
	DeliveryAddress string             `bson:"delivery_address"`
	PaymentMethod   string             `bson:"payment_method"`
	Cart            []domain.CartLine  `bson:"cart"`
	TransactionID   string             `bson:"transaction_id"`
	Provider        string             `bson:"provider"`
	PaymentURL      string             `bson:"payment_url,omitempty"`
	Status          string             `bson:"status"`
	CreatedAt       time.Time          `bson:"created_at"`
	UpdatedAt       time.Time          `bson:"updated_at"`
}

func (d *orderDocument) toDomain() *domain.Order {
	cart := d.Cart
	if cart == nil {
		cart = []domain.CartLine{}
	}
	return &domain.Order{
		ID:              d.ID.Hex(),
		OrderID:         d.OrderID,
		Amount:          d.Amount,
		CustomerName:    d.CustomerName,
		CustomerEmail:   d.CustomerEmail,
		Phone:           d.Phone,
		DeliveryAddress: d.DeliveryAddress,
		PaymentMethod:   domain.PaymentMethod(d.PaymentMethod),
		Cart:            cart,
		TransactionID:   d.TransactionID,
		Provider:        d.Provider,
		PaymentURL:      d.PaymentURL,
		Status:          domain.OrderStatus(d.Status),
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}

type MongoRepository struct {
	collection *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{collection: db.Collection(ordersCollection)}
}

func (m *MongoRepository) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "customer_email", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "order_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "status", Value: 1}}},
	}
	if _, err := m.collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

func (m *MongoRepository) Create(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	now := time.Now().UTC().Truncate(time.Millisecond)
	doc := orderDocument{
		OrderID:         order.OrderID,
		Amount:          order.Amount,
		CustomerName:    order.CustomerName,
		CustomerEmail:   order.CustomerEmail,
		Phone:           order.Phone,
		DeliveryAddress: order.DeliveryAddress,
		PaymentMethod:   order.PaymentMethod.String(),
		Cart:            domain.CopyLines(order.Cart),
		TransactionID:   order.TransactionID,
		Provider:        order.Provider,
		PaymentURL:      order.PaymentURL,
		Status:          domain.OrderStatusPending.String(),
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	res, err := m.collection.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicateOrder
		}
		return nil, persistenceErr("create", err)
	}

	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, persistenceErr("create", fmt.Errorf("unexpected inserted id type %T", res.InsertedID))
	}
	doc.ID = id
	return doc.toDomain(), nil
}

func (m *MongoRepository) ListAll(ctx context.Context) ([]*domain.Order, error) {
	return m.find(ctx, "list", bson.M{})
}

func (m *MongoRepository) ListByCustomerEmail(ctx context.Context, email string) ([]*domain.Order, error) {
	return m.find(ctx, "list by email", bson.M{"customer_email": email})
}

func (m *MongoRepository) Search(ctx context.Context, filter domain.OrderFilter) ([]*domain.Order, error) {
	query := bson.M{}
	if filter.Status != "" {
		query["status"] = filter.Status.String()
	}
	if filter.Query != "" {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(filter.Query), Options: "i"}
		query["$or"] = bson.A{
			bson.M{"customer_name": re},
			bson.M{"customer_email": re},
			bson.M{"order_id": re},
		}
	}
	return m.find(ctx, "search", query)
}

func (m *MongoRepository) find(ctx context.Context, op string, filter bson.M) ([]*domain.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})

	cursor, err := m.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, persistenceErr(op, err)
	}
	defer cursor.Close(ctx)

	orders := []*domain.Order{}
	for cursor.Next(ctx) {
		var doc orderDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, persistenceErr(op, fmt.Errorf("decode order: %w", err))
		}
		orders = append(orders, doc.toDomain())
	}
	if err := cursor.Err(); err != nil {
		return nil, persistenceErr(op, err)
	}
	return orders, nil
}

func (m *MongoRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrOrderNotFound
	}

	var doc orderDocument
	err = m.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrOrderNotFound
		}
		return nil, persistenceErr("get", err)
	}
	return doc.toDomain(), nil
}

func (m *MongoRepository) SetStatus(ctx context.Context, id string, status domain.OrderStatus) error {
	if !status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, string(status))
	}
	return m.update(ctx, "set status", id, bson.M{"status": status.String()})
}

func (m *MongoRepository) Update(ctx context.Context, id string, patch domain.OrderPatch) error {
	if err := validatePatch(patch); err != nil {
		return err
	}

	set := bson.M{}
	if patch.CustomerName != nil {
		set["customer_name"] = *patch.CustomerName
	}
	if patch.CustomerEmail != nil {
		set["customer_email"] = *patch.CustomerEmail
	}
	if patch.Phone != nil {
		set["phone"] = *patch.Phone
	}
	if patch.DeliveryAddress != nil {
		set["delivery_address"] = *patch.DeliveryAddress
	}
	if patch.Status != nil {
		set["status"] = patch.Status.String()
	}
	return m.update(ctx, "update", id, set)
}

// update applies set and moves updated_at forward, never backwards.
func (m *MongoRepository) update(ctx context.Context, op, id string, set bson.M) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrOrderNotFound
	}

	update := bson.M{"$max": bson.M{"updated_at": time.Now().UTC().Truncate(time.Millisecond)}}
	if len(set) > 0 {
		update["$set"] = set
	}

	res, err := m.collection.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return persistenceErr(op, err)
	}
	if res.MatchedCount == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func (m *MongoRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrOrderNotFound
	}

	res, err := m.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return persistenceErr("delete", err)
	}
	if res.DeletedCount == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func (m *MongoRepository) ComputeStats(ctx context.Context) (*domain.OrderStats, error) {
	orders, err := m.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return ComputeStats(orders), nil
}

func (m *MongoRepository) Ping(ctx context.Context) error {
	return m.collection.Database().Client().Ping(ctx, nil)
}

func (m *MongoRepository) Close(ctx context.Context) error {
	return m.collection.Database().Client().Disconnect(ctx)
}
