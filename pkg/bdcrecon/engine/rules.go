package engine

// RulesText describes how each Global column is filled. It is printed on the
// cover sheet of the exported workbook and by the rules command.
const RulesText = `Règles de construction de l'onglet Global

Une ligne est produite pour chaque ligne de Commandes dont le N° commande est renseigné.
Les doublons stricts (les 11 colonnes identiques) ne sont conservés qu'une fois.

A  BDC       N° commande de Commandes, écrit en texte.
B  OBJET     Libellé de Commandes ("-" si la colonne est absente).
C  FOURN.    Fournisseur de Commandes ("-" si la colonne est absente).
D  HT        Montant HT de Commandes (0 si la colonne est absente).
E  VISA      Ind. Visa de Commandes ("-" si la colonne est absente).
F  ENVOYE    Date d'envoi (JJ/MM/AAAA) et agent lus dans Envoi BDC pour ce BDC.
             En cas de doublon, la première ligne est retenue. Vide si le BDC n'y figure pas.
G  SF        "ss objet Régul CA" si le fournisseur est BNP PARIBAS - REGULARISATION CARTE ACHAT.
             Sinon, si ENVOYE contient "ss objet Régul CA" : statut de Constatations pour le BDC,
             à défaut pour ses 5 premiers caractères.
             Dans tous les autres cas : "Pas de SF connu".
H  WORKFLOW  Date (ou à défaut statut, ou 2e colonne) de Workflow pour ce BDC, ramenée à la date seule.
             En cas de doublon, la première ligne est retenue. Vide si le BDC n'y figure pas.
I  PAYE      Aucune facture : "pas de paiement connu".
             Une facture : sa date de règlement, ou la valeur brute, ou "date manquante".
             Plusieurs factures : "n paiements".
J  SOLDE     HT moins la somme des Montant HT des factures du BDC, à 2 décimales.
             Un montant illisible compte pour 0.
K  STATUT    Statut de Commandes ("-" si la colonne est absente).

Filtres appliqués en amont :
- Commandes : exclusion du fournisseur FCM 3MUNDI ESR-M et de la nature de dépense "mission".
- Factures : exclusion de la nature de dépense "MI" et du fournisseur FCM 3MUNDI ESR-M.
`
