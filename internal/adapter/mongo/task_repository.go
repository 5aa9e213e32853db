// Package mongo stores tasks as documents in a MongoDB collection.
package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"todotracker/internal/core/domain"
	"todotracker/internal/core/ports"
)

const CollectionName = "todos"

type TaskRepository struct {
	collection *mongo.Collection
	now        func() time.Time
	newID      func() string
}

type taskDocument struct {
	ID          string     `bson:"_id"`
	OwnerID     string     `bson:"owner_id"`
	Title       string     `bson:"title"`
	Description string     `bson:"description"`
	Priority    string     `bson:"priority"`
	Status      string     `bson:"status"`
	DueDate     *time.Time `bson:"due_date,omitempty"`
	CreatedAt   time.Time  `bson:"created_at"`
	UpdatedAt   time.Time  `bson:"updated_at"`
}

var _ ports.TaskRepository = (*TaskRepository)(nil)

func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return client, nil
}

func NewTaskRepository(db *mongo.Database) *TaskRepository {
	return &TaskRepository{
		collection: db.Collection(CollectionName),
		now:        time.Now,
		newID:      uuid.NewString,
	}
}

// EnsureIndexes creates the owner index used by every query.
func (r *TaskRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "owner_id", Value: 1}, {Key: "created_at", Value: -1}},
	})
	return err
}

func (r *TaskRepository) Create(ctx context.Context, ownerID string, input domain.CreateTaskInput) (domain.Task, error) {
	if err := input.Validate(); err != nil {
		return domain.Task{}, err
	}

	task := domain.NewTask(ownerID, r.newID(), r.timestamp(), input)
	if _, err := r.collection.InsertOne(ctx, toDocument(task)); err != nil {
		return domain.Task{}, domain.StoreError("create task", err)
	}
	return task, nil
}

func (r *TaskRepository) FindByID(ctx context.Context, ownerID, id string) (domain.Task, error) {
	var doc taskDocument
	err := r.collection.FindOne(ctx, ownedBy(ownerID, id)).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.Task{}, domain.ErrTaskNotFound
		}
		return domain.Task{}, domain.StoreError("find task", err)
	}
	return doc.toDomain(), nil
}

func (r *TaskRepository) FindAllByOwner(ctx context.Context, ownerID string) ([]domain.Task, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"owner_id": ownerID})
	if err != nil {
		return nil, domain.StoreError("list tasks", err)
	}

	var docs []taskDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, domain.StoreError("list tasks", err)
	}

	tasks := make([]domain.Task, 0, len(docs))
	for _, doc := range docs {
		tasks = append(tasks, doc.toDomain())
	}
	return tasks, nil
}

// Update is a single FindOneAndUpdate, which MongoDB applies atomically
// to the matched document.
func (r *TaskRepository) Update(ctx context.Context, ownerID, id string, input domain.UpdateTaskInput) (domain.Task, error) {
	if err := input.Validate(); err != nil {
		return domain.Task{}, err
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc taskDocument
	err := r.collection.FindOneAndUpdate(ctx, ownedBy(ownerID, id), buildUpdate(input, r.timestamp()), opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.Task{}, domain.ErrTaskNotFound
		}
		return domain.Task{}, domain.StoreError("update task", err)
	}
	return doc.toDomain(), nil
}

func (r *TaskRepository) Delete(ctx context.Context, ownerID, id string) error {
	result, err := r.collection.DeleteOne(ctx, ownedBy(ownerID, id))
	if err != nil {
		return domain.StoreError("delete task", err)
	}
	if result.DeletedCount == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func (r *TaskRepository) Ping(ctx context.Context) error {
	if err := r.collection.Database().Client().Ping(ctx, nil); err != nil {
		return domain.StoreError("ping", err)
	}
	return nil
}

// timestamp matches the millisecond precision of BSON dates.
func (r *TaskRepository) timestamp() time.Time {
	return r.now().UTC().Truncate(time.Millisecond)
}

func ownedBy(ownerID, id string) bson.M {
	return bson.M{"_id": id, "owner_id": ownerID}
}

func buildUpdate(input domain.UpdateTaskInput, now time.Time) bson.M {
	set := bson.M{"updated_at": now}
	if input.Title != nil {
		set["title"] = *input.Title
	}
	if input.Description != nil {
		set["description"] = *input.Description
	}
	if input.Priority != nil {
		set["priority"] = string(*input.Priority)
	}
	if input.Status != nil {
		set["status"] = string(*input.Status)
	}

	update := bson.M{"$set": set}
	if input.DueDateSet {
		if input.DueDate != nil {
			set["due_date"] = *input.DueDate
		} else {
			update["$unset"] = bson.M{"due_date": ""}
		}
	}
	return update
}

func toDocument(task domain.Task) taskDocument {
	return taskDocument{
		ID:          task.ID,
		OwnerID:     task.OwnerID,
		Title:       task.Title,
		Description: task.Description,
		Priority:    string(task.Priority),
		Status:      string(task.Status),
		DueDate:     task.DueDate,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}

func (d taskDocument) toDomain() domain.Task {
	task := domain.Task{
		ID:          d.ID,
		OwnerID:     d.OwnerID,
		Title:       d.Title,
		Description: d.Description,
		Priority:    domain.TaskPriority(d.Priority),
		Status:      domain.TaskStatus(d.Status),
		CreatedAt:   d.CreatedAt.UTC(),
		UpdatedAt:   d.UpdatedAt.UTC(),
	}
	if d.DueDate != nil {
		due := domain.CalendarDate(d.DueDate.UTC())
		task.DueDate = &due
	}
	return task
}
