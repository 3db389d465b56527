package database

import (
	"context"
	"fmt"
	"log"
	"time"

	config "github.com/edubridge-lk/edubridge-api/configs"
	"github.com/edubridge-lk/edubridge-api/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"
)

var (
	Client *mongo.Client
	DB     *mongo.Database
)

func ConnectDB() {
	uri := config.Config("MONGO_URI")
	dbName := config.Config("DATABASE_NAME")
	if dbName == "" {
		dbName = "edubridge"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		log.Fatalf("🔥 Failed to connect to MongoDB: %v", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		log.Fatalf("🔥 Failed to ping MongoDB: %v", err)
	}

	Client = client
	DB = client.Database(dbName)
	fmt.Println("✅ Database connected successfully")
}

func Disconnect() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := Client.Disconnect(ctx); err != nil {
		log.Printf("Failed to disconnect from MongoDB: %v", err)
	}
}

func Users() *mongo.Collection    { return DB.Collection("users") }
func Orders() *mongo.Collection   { return DB.Collection("orders") }
func Courses() *mongo.Collection  { return DB.Collection("courses") }
func Months() *mongo.Collection   { return DB.Collection("months") }
func Batches() *mongo.Collection  { return DB.Collection("batches") }
func Settings() *mongo.Collection { return DB.Collection("settings") }

// EnsureIndexes builds the unique indexes the API relies on for its
// duplicate-email and duplicate-year conflict responses.
func EnsureIndexes() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := Users().Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		log.Fatalf("🔥 Failed to create users index: %v", err)
	}

	_, err = Batches().Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "year", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		log.Fatalf("🔥 Failed to create batches index: %v", err)
	}

	_, err = Courses().Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "month_id", Value: 1}},
	})
	if err != nil {
		log.Fatalf("🔥 Failed to create courses index: %v", err)
	}

	fmt.Println("✅ Database indexes ensured")
}

func SeedAdmin() {
	adminEmail := config.Config("ADMIN_EMAIL")
	adminPassword := config.Config("ADMIN_PASSWORD")
	if adminEmail == "" || adminPassword == "" {
		log.Println("⚠️ ADMIN_EMAIL/ADMIN_PASSWORD not set, skipping admin seed")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	count, err := Users().CountDocuments(ctx, bson.M{"email": adminEmail})
	if err != nil {
		log.Fatalf("🔥 Failed to check for admin user: %v", err)
	}
	if count > 0 {
		log.Println("Admin user already exists.")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("🔥 Failed to hash admin password: %v", err)
	}

	now := time.Now()
	adminUser := models.User{
		FullName:  config.Config("ADMIN_FULL_NAME"),
		Email:     adminEmail,
		Password:  string(hashedPassword),
		Role:      models.RoleAdmin,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := Users().InsertOne(ctx, adminUser); err != nil {
		log.Fatalf("🔥 Failed to seed admin user: %v", err)
	}

	log.Println("✅ Admin user seeded successfully")
}
